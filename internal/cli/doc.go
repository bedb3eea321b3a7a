// Package cli is the Guardian command-line front end.
//
// App is the composition root: it opens the store, restores the session,
// prepares the sync client and offline queue, and builds the domain
// services. The cobra command tree in NewRootCommand renders every
// operation as a JSON result object, so failures are reported rather than
// crashing the process. `guardian shell` runs the same commands from an
// interactive prompt and `guardian watch` replays the offline queue on a
// schedule.
package cli
