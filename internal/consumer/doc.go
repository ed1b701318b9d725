// Package consumer receives framed payloads from a collector and keeps a
// screen layout of one region per category up to date.
//
// A Consumer runs a single loop that polls for quit, applies pending resizes
// and waits briefly for the next frame. Drawing is delegated to a Renderer.
package consumer
