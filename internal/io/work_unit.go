package io

// Contains the minimal data needed to process a single content item of a
// tileset stage
type WorkUnit struct {
	URI        string
	InputRoot  string
	OutputRoot string
}
