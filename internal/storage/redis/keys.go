package redis

import (
	"fmt"

	"github.com/mcoot/matchawards/internal/model"
)

const defaultKeyPrefix = "awards"

// keys builds every Redis key under one prefix
type keys struct {
	prefix string
}

// player returns the HASH holding one player's fields
func (k keys) player(shirt model.ShirtNumber) string {
	return fmt.Sprintf("%s:player:%d", k.prefix, shirt)
}

// players returns the SET of every stored shirt number
func (k keys) players() string {
	return fmt.Sprintf("%s:idx:players", k.prefix)
}

// votes returns the LIST of JSON votes, oldest first
func (k keys) votes() string {
	return fmt.Sprintf("%s:votes", k.prefix)
}

// messages returns the LIST of every JSON message, newest first
func (k keys) messages() string {
	return fmt.Sprintf("%s:messages", k.prefix)
}

// inbox returns the LIST of JSON messages for one recipient, newest first
func (k keys) inbox(recipient model.ShirtNumber) string {
	return fmt.Sprintf("%s:idx:inbox:%d", k.prefix, recipient)
}
