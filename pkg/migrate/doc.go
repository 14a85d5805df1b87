// Package migrate runs a configuration migration for one application.
//
// A run moves through the states Init, Discover, Quiesce, Migrate, Resume
// and Done:
//
//   - Init checks that the process may control services.
//   - Discover locates <app>/etc/cfgs and the application's services. When no
//     service matches, the destination is created and the run ends with
//     nothing to do.
//   - Quiesce stops every service, in discovery order, and gives up on the
//     first failure. Units stopped before the failure are left stopped.
//   - Migrate copies the tree, saves the symlink map, scans tunables and
//     restores the symlinks in the copy.
//   - Resume starts every stopped service. It is deferred as soon as
//     Quiesce succeeds, so it also runs when Migrate fails or panics.
//
// Errors from Migrate and Resume are joined into the run's error. Everything
// the run did is recorded in a Result.
package migrate
