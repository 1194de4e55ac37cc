// Package blob decodes the import blob embedded in a native artifact.
//
// The blob is a little-endian binary stream: a u64 entry count, then per
// entry a u64-length-prefixed UTF-8 type tag followed by a loader-specific
// payload. For each tag the decoder forms the registry key
// "module.loadbinary_" + tag and hands the remaining stream to the loader
// registered under it. Loaders consume exactly their own payload; the format
// guarantees this, the decoder does not re-verify it.
//
// Decode takes the registry as an explicit LoaderRegistry value instead of
// consulting shared process state, so callers can scope which loaders an
// artifact may reference.
package blob
