// Package automation keeps the scheduled value changes of an audio
// parameter and reconstructs the parameter's intrinsic value at any time.
//
// A [Timeline] holds events ordered by time, ties broken by insertion
// order. Each scheduling call validates its arguments and the exclusivity
// of value-curve intervals before inserting. [Timeline.ValueAt] and
// [Timeline.Fill] evaluate the resulting piecewise curve:
//
//   - before the first event the default value applies;
//   - after a SetValue or a ramp the end value holds, unless the next event
//     is a linear or exponential ramp, which interpolates toward it;
//   - after a SetTarget the value approaches the target exponentially from
//     the value reached when the event started;
//   - a value curve interpolates linearly across its samples and holds its
//     final sample past the end.
package automation
