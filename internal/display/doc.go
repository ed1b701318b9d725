// Package display draws collector payloads in the terminal.
//
// The TUI is a Bubble Tea program. The consumer loop renders into it through
// ProgramRenderer, which hands each payload to the program as a message, so
// only the Bubble Tea event loop touches the terminal. Window size changes
// flow the other way: the model forwards tea.WindowSizeMsg to a resize
// callback and the consumer re-lays out on its next poll.
//
//	consumer.Layout --Render--> ProgramRenderer --PanelMsg--> Model.View
//	tea.WindowSizeMsg --> Model.Update --> OnResize (consumer.NotifyResize)
//
// PlainRenderer is the non-interactive alternative. It prints each payload
// as a titled block and never touches terminal state.
package display
