// Package install turns catalog recipes into installed packages.
//
// Each installation method has one [Installer]: [JSPkg] for the JavaScript
// package registry, [PyPkg] for the Python package index and [GitClone] for
// source repositories. [Set.For] dispatches on [catalog.Method].
//
// Installers never touch client configuration. Install returns an
// [Artifact] describing how the package is launched; the caller turns that
// into a command spec.
//
// Every subprocess goes through a [runner.Runner], so dry runs and tests
// never launch anything. In dry-run mode the commands an installer would run
// are recorded in [Artifact.Planned].
package install
