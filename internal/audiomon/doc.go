// Package audiomon answers one question before each queued item is
// processed: is audio already playing that does not belong to this
// daemon? If so, the caller should drop the item rather than talk over
// whatever is already on the speakers.
package audiomon
