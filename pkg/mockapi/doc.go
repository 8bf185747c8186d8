// Package mockapi is an in-memory implementation of the platform API for
// local development and tests.
//
// It serves the same routes the dashboard client calls, with a chi router,
// bearer-token checks and the platform's {"error": "..."} response bodies.
// A fresh server is seeded with a small containment tree (a building with one
// floor and one room) and a handful of anchors in the room, plus an admin
// principal that can log in with [AdminUsername] / [AdminPassword].
//
//	srv := mockapi.New(mockapi.Options{Token: "dev"})
//	http.ListenAndServe(":8787", srv)
//
// Anchor deletion is soft: deleted anchors stay in their space with status
// "deleted" so that editors can show them.
package mockapi
