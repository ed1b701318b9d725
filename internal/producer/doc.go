// Package producer implements the collector side of pulse.
//
// A Producer listens on one TCP endpoint and serves a single display at a
// time. While a display is connected it runs collection cycles at a fixed
// cadence and sends one framed payload per category with data. When the
// display goes away the Producer returns to listening.
//
//	Listening -> Connected -> Streaming -> Terminated -> Listening ...
package producer
