// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package components provides reusable UI components for the pony TUI.

Components are built on Bubble Tea, Bubbles and Lip Gloss and know nothing
about the chat service; screens in package app feed them data.

# Display Components

Header (header.go) - Title bar with the signed-in user.
Placeholder (placeholder.go) - "loading..." rows shown while data is absent.
ErrorLine (errorline.go) - Single-line error with an accessible indicator.

# Input Components

Field (field.go) - Labelled text input used by the login, registration and
send forms.
Spinner (spinner.go) - ASCII spinner shown while a send is in flight.

# Scrolling

ScrollViewport (scroll_viewport.go) - Viewport that follows new content.
Scroll requests from package scroll are delivered as Bubble Tea ticks; an
instant request jumps to the bottom and a smooth one is animated with a
harmonica spring.
*/
package components
