// Package presentation maps a sequence.State to the render directives
// consumed by the terminal renderer, the plain presenter and the HTTP
// stream.
//
// Derive is a pure function: it reads nothing but its arguments, so
// renderers may call it once per frame or once per state change and get the
// same answer either way. Icon positions are expressed in viewport percent,
// with (0,0) at the top-left corner and (50,50) at the centre; anchors may
// lie slightly outside the viewport so that icons are clipped by the frame.
package presentation
