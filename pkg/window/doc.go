// Package window implements the time model used by the tumbling operators. In the world of indicator processing on
// an unbounded tick stream, windowing is a concept of grouping ticks using temporal boundaries. Every event carries a
// Tick, which is either an instant or the BigBang sentinel that marks a value with no time association.
//
// Windows here are always tumbling, i.e. non-overlapping and covering the timeline contiguously. A Period answers a
// single question, "are these two ticks in the same window?", and never materializes the window boundaries. Two
// families of periods exist,
//   - calendar periods (Year, Month, Day), which compare calendar fields after converting to the period's location
//   - duration periods, which partition the timeline into half-open intervals of a fixed length anchored to a fixed
//     reference epoch, so that weekly, daily or hourly windows line up the same way regardless of where a stream starts.
//
// The reference epoch is the UNIX epoch (wall clock in the period's location) shifted by four days, which is a Monday,
// so week-long windows always start on Monday 00:00.
package window
