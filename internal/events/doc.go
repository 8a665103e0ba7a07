// Package events defines the envelope format for change notifications
// pushed over live channels. It carries no delivery logic; fan-out lives
// in the realtime package.
package events
