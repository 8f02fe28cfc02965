package colorproc

import "github.com/gogpu/colorproc/lutcache"

// Option configures a Processor during creation.
//
// Example:
//
//	bakes := lutcache.New(32)
//	p := colorproc.NewProcessor(colorproc.WithLutCache(bakes))
type Option func(*processorOptions)

type processorOptions struct {
	lutCache *lutcache.Cache
}

func defaultOptions() processorOptions {
	return processorOptions{}
}

// WithLutCache shares baked 3D LUT lattices through c, keyed by the
// lattice cache ID. Processors with equal lattices and descriptors then
// bake once.
func WithLutCache(c *lutcache.Cache) Option {
	return func(o *processorOptions) {
		o.lutCache = c
	}
}
