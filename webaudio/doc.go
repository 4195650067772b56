// Package webaudio implements a Web Audio style processing graph.
//
// A context owns an arena of nodes. Nodes are connected to other nodes or
// to the AudioParams of other nodes, and the graph is rendered one quantum
// (128 frames by default) at a time. Every AudioParam carries an
// automation timeline that is evaluated per sample (a-rate) or per
// quantum (k-rate) during rendering.
//
// Two contexts drive rendering:
//
//   - AudioContext renders in real time. It is an io.Reader of interleaved
//     float32 little-endian frames, so any pull-based device sink can play
//     it.
//   - OfflineAudioContext renders a fixed number of frames on its own
//     goroutine as fast as possible and resolves a Future with the result.
//
// Control calls (node creation, connect, disconnect, automation, start and
// stop) may be made from any goroutine. They commit under the context lock,
// which a render quantum also holds, so a quantum never observes a partial
// mutation. Source start and stop requests reach the renderer through the
// control-message queue and take effect at the top of the next quantum.
//
// Feedback is allowed when every cycle contains a DelayNode. Such a delay
// is split into a reader that runs before the rest of the cycle and a
// writer that runs after it, and its delay is clamped to at least one
// quantum. Cycles without a delay are rendered as silence.
package webaudio
