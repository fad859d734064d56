package blob

import (
	"context"
	"errors"
	"net/url"
	"strings"
)

// Object is one stored blob as reported by a listing.
type Object struct {
	Name string
}

// Lister lists the objects under a storage folder.
type Lister interface {
	List(ctx context.Context, folder string) ([]Object, error)
}

// URLResolver maps a storage path to a publicly reachable URL.
type URLResolver interface {
	PublicURL(path string) string
}

// BaseResolver resolves public URLs by joining paths onto a fixed base, the
// way hosted storage services expose public buckets.
type BaseResolver struct {
	base *url.URL
}

// NewBaseResolver parses base and returns a resolver. The base must be an
// absolute URL.
func NewBaseResolver(base string) (*BaseResolver, error) {
	u, err := url.Parse(base)
	if err != nil {
		return nil, err
	}
	if !u.IsAbs() {
		return nil, errors.New("base url must be absolute")
	}
	return &BaseResolver{base: u}, nil
}

// PublicURL implements [URLResolver]. Path segments are escaped
// individually so object names with spaces or unicode stay addressable.
func (r *BaseResolver) PublicURL(path string) string {
	segments := strings.Split(strings.TrimPrefix(path, "/"), "/")
	escaped := make([]string, len(segments))
	for i, seg := range segments {
		escaped[i] = url.PathEscape(seg)
	}
	return r.base.JoinPath(escaped...).String()
}
