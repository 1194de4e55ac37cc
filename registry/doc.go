// Package registry holds the process-wide mapping from loader keys to
// loader functions.
//
// Two key families exist. Binary loaders reconstruct sub-modules out of
// import blob entries and live under "module.loadbinary_" + type tag. File
// loaders open artifacts picked by extension and live under
// "module.loadfile_" + extension. Artifact support is added by registering a
// loader, usually from an init function in the package that implements it;
// importing that package for side effects is enough to enable the format.
//
// The Default registry serves the common case. Components that consult
// loaders accept a *Registry (or the blob.LoaderRegistry interface) so tests
// can scope registrations away from process-global state.
package registry
