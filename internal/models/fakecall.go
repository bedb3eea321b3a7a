package models

// FakeCallTemplate describes an incoming call the app can fake on demand.
type FakeCallTemplate struct {
	ID             int64  `json:"id"`
	UserID         int64  `json:"user_id"`
	CallerName     string `json:"caller_name"`
	CallerImageURL string `json:"caller_image_url,omitempty"`
	Language       string `json:"language"`
	IsDefault      bool   `json:"is_default"`
}

func (f *FakeCallTemplate) GetID() int64 { return f.ID }
func (f *FakeCallTemplate) SetID(id int64) { f.ID = id }

func (f *FakeCallTemplate) Validate() error {
	if err := requireUser(f.UserID); err != nil {
		return err
	}
	return requireText("caller_name", f.CallerName)
}
