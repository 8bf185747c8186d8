// Package editor implements the 2D anchor canvas editor as a headless state
// machine.
//
// The editor shows the anchors of one space on a flat canvas. Anchor
// positions live in domain units; a [Viewport] maps them to screen pixels
// with a fixed offset and a uniform scale:
//
//	screen = offset + domain*scale
//	domain = (screen - offset) / scale
//
// All mutation goes through [State.Apply], which takes one [Event] at a time
// and optionally returns an [Effect] for the caller to run off the event
// loop. The only effect is [LoadAnchors]; run it with [Fetch] and feed the
// resulting [AnchorsLoaded] event back into Apply. Every space selection
// bumps a generation counter, and a load result carrying an older generation
// is dropped, so a slow response for a previously selected space can never
// overwrite the current one.
//
// Selection and dragging follow the canvas mouse model:
//
//   - [Click] selects the nearest anchor within [HitRadius] domain units of
//     the pointer, or clears the selection when nothing is that close
//   - [PointerDown] starts a drag and [PointerUp] or [PointerLeave] ends it
//   - [PointerMove] moves the selected anchor to the pointer while dragging
//
// Drags change local state only. [Save] writes every held anchor back to the
// platform, one request at a time, and reports which writes failed.
//
// Domain coordinates relate to geographic ones by a fixed factor of 100:
// an anchor at lat 0.5 sits at X = 50.
package editor
