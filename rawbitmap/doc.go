/*
Package rawbitmap is the opaque, handle-based bitmap resource that package
bitmaps wraps. Its API deliberately mirrors the hwloc_bitmap_* C functions:
bitmaps are only ever addressed through *[Bitmap] handles, and integer results
follow the C conventions of returning -1 for “none”, “infinite” and failures,
and 0 for success.

Two backends implement this API:

  - the default backend is written in Go and stores the explicit prefix of a
    bitmap in a [bitset.BitSet], together with a flag telling whether all bits
    beyond that prefix are set (“infinite” bitmaps).
  - building with cgo enabled and the “hwloc” build tag instead links against
    libhwloc, so that handles are real hwloc_bitmap_t pointers that can be
    exchanged with other hwloc-based code.

Handles are not synchronized. Concurrent reads of the same handle are fine,
but any mutation must be serialized by the caller. A handle must not be
used after it has been passed to [Free].

[bitset.BitSet]: https://pkg.go.dev/github.com/bits-and-blooms/bitset#BitSet
*/
package rawbitmap
