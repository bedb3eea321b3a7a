// Package services implements Guardian's domain operations on top of the
// store: accounts, contacts, evidence, alerts, locations, safe zones,
// preferences, the responder directory, fake calls and risk logging.
//
// Services receive their collaborators explicitly (see New). Operations
// that matter to the backend hand an event to an EventSink after their
// store work has committed; a failing sink never fails the operation.
package services
