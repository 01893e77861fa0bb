/*
Package bitmaps supports working with possibly infinite sets of non-negative
indices, such as logical processor numbers and memory node numbers, stored in
opaque bitmap resources.

A [Bitmap] either owns its resource or borrows it from some other owner. Owned
bitmaps must be released using [Bitmap.Close]; bitmaps that are forgotten
without closing them are released when garbage collected. Borrowed bitmaps
never release their resource. The [UnsafeAdopt] and [UnsafeBorrow] functions
wrap raw resource handles of package [rawbitmap].

Bitmaps can be infinite, that is, containing all indices beyond some index.
Consequently, [Bitmap.Weight] and [Bitmap.LastSet] report that no answer
exists for infinite bitmaps, and iterating the set indices of an infinite
bitmap has to be bounded by the caller.

Indices are of type [Index] and range from 0 to [MaxIndex]. Passing any index
outside this range, as well as running out of memory for bitmap resources, is
treated as a programming error that fails fatally through
[github.com/grailbio/base/must]. In contrast, converting integers into indices
using [IndexFrom] as well as parsing textual lists using [Parse] and [NewList]
return errors.

The textual list format is the same as used by hwloc and Linux procfs, with
individual index ranges “x-y” separated by “,”, single indices collapsed into
“x”, and an infinite run of indices rendered as “x-”. [Bitmap.String] returns
this format, and [Bitmap.List] returns the corresponding [List] of ranges.

  - [Bitmap.And], [Bitmap.Or], [Bitmap.Xor], [Bitmap.AndNot], and [Bitmap.Not]
    return new bitmaps.
  - [Bitmap.InPlaceAnd], [Bitmap.InPlaceOr], [Bitmap.InPlaceXor],
    [Bitmap.InPlaceAndNot], and [Bitmap.Invert] modify a bitmap in place.

# Specialized Sets

[Set] wraps a Bitmap into a distinct type per [Kind], such as a [CPUSet] or a
[NodeSet]. Sets of different kinds cannot be combined without explicitly
unwrapping them into their bitmaps using [Set.Bitmap] first, while [SetOf]
goes the opposite direction.
*/
package bitmaps
