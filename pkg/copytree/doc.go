// Package copytree mirrors a configuration tree into a destination while
// recording, rather than replicating, the symlinks it meets.
//
// Symlinks are dereferenced during the copy so the destination holds real
// content even if a link target later becomes unreachable. Each link's raw
// target is returned in a types.SymlinkMap so the links can be recreated
// afterwards with package symlinkmap.
package copytree
