// Package protocol implements the binary wire format used to mirror a
// rendered mount onto a remote host.
//
// The sender wraps its vdom.Sink with Capture. Every call the reconciler
// makes is applied locally and recorded, including the handle the call
// produced. After a render the captured calls are flushed as one Batch
// and shipped; the receiver feeds each Batch to a Replayer, which issues
// the same calls against its own sink and checks that it hands out the
// same handles. Two hosts that allocate handles deterministically (like
// host.Graph) therefore stay in lock-step without any round trip.
//
// # Wire Format
//
// All messages are framed with a 6-byte header:
//
//	┌─────────────┬──────────────┬───────────────────────────────┐
//	│ Frame Type  │ Flags        │ Payload Length                │
//	│ (1 byte)    │ (1 byte)     │ (4 bytes, big-endian)         │
//	└─────────────┴──────────────┴───────────────────────────────┘
//
// # Frame Types
//
//   - FrameHello (0x00): Mount description, first frame on a stream
//   - FrameMutations (0x02): One Batch
//   - FrameError (0x05): Error message
//
// # Encoding
//
//   - Varint: Compact encoding for handles, indices and counts
//   - Length-prefixed: Strings prefixed with their varint length
//   - Big-endian: Fixed-width integers (uint16, uint32)
//
// # Batches
//
//	[Seq: varint][Flags: byte][Count: varint][Mutation]...
//
// Each mutation starts with its vdom.Op byte:
//
//	CreateElement  [tag: string][result: varint]
//	CreateText     [content: string][result: varint]
//	Append         [parent: varint][child: varint]
//	RemoveChildAt  [parent: varint][index: varint]
//	ReplaceChildAt [parent: varint][index: varint][child: varint]
//	ChildAt        [parent: varint][index: varint][result: varint]
//
// Sequence numbers start at 1 and increase by one per batch. A Replayer
// rejects gaps. A batch flagged BatchRelease tells the receiver to drop
// every handle except the mount root once the batch is applied.
package protocol
