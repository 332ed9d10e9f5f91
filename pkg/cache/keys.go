package cache

import "sort"

// Keyer builds cache keys.
type Keyer interface {
	// DatasetKey identifies a loaded dataset by its path and content hash.
	DatasetKey(path, contentHash string) string
	// ArtifactKey identifies one rendered view.
	ArtifactKey(datasetHash string, opts ArtifactKeyOpts) string
}

// ArtifactKeyOpts holds everything that changes a rendered artifact.
type ArtifactKeyOpts struct {
	View   string            `json:"view"`
	Format string            `json:"format"`
	Width  int               `json:"width,omitempty"`
	Height int               `json:"height,omitempty"`
	Params map[string]string `json:"params,omitempty"`
}

// DefaultKeyer is the standard [Keyer].
type DefaultKeyer struct{}

// NewDefaultKeyer returns a [DefaultKeyer].
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// DatasetKey returns "dataset:<hash>".
func (DefaultKeyer) DatasetKey(path, contentHash string) string {
	return hashKey("dataset", path, contentHash)
}

// ArtifactKey returns "artifact:<hash>". Params are hashed in sorted key
// order so equal maps always give equal keys.
func (DefaultKeyer) ArtifactKey(datasetHash string, opts ArtifactKeyOpts) string {
	keys := make([]string, 0, len(opts.Params))
	for k := range opts.Params {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	params := make([][2]string, len(keys))
	for i, k := range keys {
		params[i] = [2]string{k, opts.Params[k]}
	}
	return hashKey("artifact", datasetHash, opts.View, opts.Format, opts.Width, opts.Height, params)
}

var _ Keyer = DefaultKeyer{}
