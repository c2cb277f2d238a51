// Package display implements the page's single data-driven element: it fetches
// one message from the backend when mounted and settles into either that message
// or a fixed error string.
//
// A Component owns its state for its whole lifetime. Mount starts at most one
// fetch and never blocks, so renderers can draw the Loading placeholder right
// away and redraw once Done is closed. Failure detail goes to the diagnostic
// logger only; renderers see ErrorText.
package display
