package cli

import (
	"context"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"time"

	"github.com/dmitrijs2005/guardian/internal/blobstore"
	"github.com/dmitrijs2005/guardian/internal/common"
	"github.com/dmitrijs2005/guardian/internal/models"
	"github.com/spf13/cobra"
)

func newEvidenceCommand(st *rootState) *cobra.Command {
	cmd := &cobra.Command{Use: "evidence", Short: "Capture and manage evidence"}
	cmd.AddCommand(
		newEvidenceAddCommand(st),
		newEvidenceListCommand(st),
		newEvidenceBackupCommand(st),
		newEvidenceURLCommand(st),
		newEvidenceDeleteCommand(st),
	)
	return cmd
}

// evidenceView is what listings print: the payload itself stays local.
type evidenceView struct {
	models.Evidence
	FilePayload []byte `json:"file_payload,omitempty"`
}

func viewOf(ev *models.Evidence) evidenceView {
	return evidenceView{Evidence: *ev}
}

func newEvidenceAddCommand(st *rootState) *cobra.Command {
	var (
		typ, file, desc, mimeType string
		encrypted                 bool
		where                     *pointFlags
	)
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Store a file as evidence",
		Args:  cobra.NoArgs,
		RunE: st.runE(authed(func(ctx context.Context, a *App, uid int64, _ []string) (any, error) {
			at, err := where.point()
			if err != nil {
				return nil, err
			}
			ev := &models.Evidence{
				UserID:      uid,
				Type:        models.EvidenceType(typ),
				Description: desc,
				MimeType:    mimeType,
				IsEncrypted: encrypted,
			}
			if file != "" {
				info, err := os.Stat(file)
				if err != nil {
					return nil, fmt.Errorf("%w: %w", common.ErrInvalidArgument, err)
				}
				if info.Size() > common.MaxEvidenceSize {
					ev.FileSize = info.Size()
				} else {
					body, err := os.ReadFile(file)
					if err != nil {
						return nil, fmt.Errorf("%w: %w", common.ErrInvalidArgument, err)
					}
					ev.FilePayload = body
				}
				ev.FileName = filepath.Base(file)
				if ev.MimeType == "" {
					ev.MimeType = mime.TypeByExtension(filepath.Ext(file))
				}
			}
			ev.LocationLat, ev.LocationLng = coords(at)
			saved, err := a.svc.Evidence.Add(ctx, ev)
			if err != nil {
				return nil, err
			}
			return viewOf(saved), nil
		})),
	}
	f := cmd.Flags()
	f.StringVar(&typ, "type", string(models.EvidencePhoto), "photo|video|audio|chat_log|document")
	f.StringVarP(&file, "file", "f", "", "file to store")
	f.StringVar(&desc, "description", "", "free-form description")
	f.StringVar(&mimeType, "mime", "", "MIME type, guessed from the file name when empty")
	f.BoolVar(&encrypted, "encrypted", false, "mark the payload as encrypted")
	where = addPointFlags(cmd, "capture")
	return cmd
}

func newEvidenceListCommand(st *rootState) *cobra.Command {
	var typ string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List evidence, newest first",
		Args:  cobra.NoArgs,
		RunE: st.runE(authed(func(ctx context.Context, a *App, uid int64, _ []string) (any, error) {
			var filter *models.EvidenceType
			if typ != "" {
				t := models.EvidenceType(typ)
				filter = &t
			}
			list, err := a.svc.Evidence.List(ctx, uid, filter)
			if err != nil {
				return nil, err
			}
			out := make([]evidenceView, len(list))
			for i, ev := range list {
				out[i] = viewOf(ev)
			}
			return out, nil
		})),
	}
	cmd.Flags().StringVar(&typ, "type", "", "only evidence of this type")
	return cmd
}

func newEvidenceBackupCommand(st *rootState) *cobra.Command {
	return &cobra.Command{
		Use:   "backup <id>",
		Short: "Upload evidence to object storage",
		Args:  cobra.ExactArgs(1),
		RunE: st.runE(authed(func(ctx context.Context, a *App, _ int64, args []string) (any, error) {
			id, err := parseID(args[0])
			if err != nil {
				return nil, err
			}
			ev, err := a.svc.Evidence.Backup(ctx, id)
			if err != nil {
				return nil, err
			}
			return viewOf(ev), nil
		})),
	}
}

func newEvidenceURLCommand(st *rootState) *cobra.Command {
	var ttl time.Duration
	cmd := &cobra.Command{
		Use:   "url <id>",
		Short: "Print a temporary download link for backed up evidence",
		Args:  cobra.ExactArgs(1),
		RunE: st.runE(authed(func(ctx context.Context, a *App, _ int64, args []string) (any, error) {
			if a.blob == nil {
				return nil, blobstore.ErrNotConfigured
			}
			id, err := parseID(args[0])
			if err != nil {
				return nil, err
			}
			ev, err := a.svc.Evidence.Get(ctx, id)
			if err != nil {
				return nil, err
			}
			if ev.RemoteKey == "" {
				return nil, fmt.Errorf("%w: evidence %d is not backed up", common.ErrInvalidArgument, id)
			}
			url, err := a.blob.PresignGet(ctx, ev.RemoteKey, ttl)
			if err != nil {
				return nil, err
			}
			return map[string]string{"url": url}, nil
		})),
	}
	cmd.Flags().DurationVar(&ttl, "ttl", 15*time.Minute, "link lifetime")
	return cmd
}

func newEvidenceDeleteCommand(st *rootState) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete evidence",
		Args:  cobra.ExactArgs(1),
		RunE: st.runE(authed(func(ctx context.Context, a *App, _ int64, args []string) (any, error) {
			id, err := parseID(args[0])
			if err != nil {
				return nil, err
			}
			return map[string]int64{"deleted": id}, a.svc.Evidence.Delete(ctx, id)
		})),
	}
}
