// Package lutcache memoizes baked 3D LUT lattices by their cache ID.
//
// Baking a lattice runs every lattice operation over edge³ points, which is
// the most expensive thing a processor does. Processors that share a Cache
// bake each distinct lattice once:
//
//	c := lutcache.New(64)
//	p := colorproc.NewProcessor(colorproc.WithLutCache(c))
//
// The cache is sharded to keep lock contention low when many processors
// query it at once, and evicts least recently used lattices per shard.
//
// # Thread Safety
//
// Cache is safe for concurrent use and must not be copied after creation.
// Cached lattices are shared: callers copy them out and never modify them.
package lutcache
