// Package objfile inspects native artifacts on disk without loading them
// into the process.
//
// Exports lists the function symbols an artifact would serve once loaded,
// which lets tooling show what a library offers before committing to running
// its code. ELF, Mach-O, and PE artifacts are recognized by magic bytes.
package objfile
