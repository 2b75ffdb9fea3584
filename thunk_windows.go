//go:build windows

package winjector

import "sync"

var thunkCache struct {
	once sync.Once
	img  []byte
	err  error
}

// thunkImage returns the process-wide, lazily-built thunk payload: the
// architecture's compiled bootstrap bytes, zero-padded to pointer alignment,
// followed by the resolved loader-primitive table (spec.md §4.3). The first
// caller resolves and builds it; every later call reuses the cached result.
func thunkImage() ([]byte, error) {
	thunkCache.once.Do(func() {
		prims, err := resolveLoaderPrimitives()
		if err != nil {
			thunkCache.err = err
			return
		}
		thunkCache.img, thunkCache.err = buildThunkImage(prims)
	})
	return thunkCache.img, thunkCache.err
}
