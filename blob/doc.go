// Package blob declares the consumed blob-storage boundary: listing objects
// in a folder and resolving their public URLs. The hosted storage service
// sits behind [Lister]; this core only defines the surface the image
// features consume and a base-URL resolver for public paths.
package blob
