package handler

import (
	"pairchat/internal/app/chat"
	"pairchat/internal/app/history"
	"pairchat/internal/app/user"
	"pairchat/internal/configs"
)

// AppDeps bundles the collaborators every handler needs.
type AppDeps struct {
	Registry *chat.Registry
	Sender   *chat.Sender
	Config   *configs.AppConfig
	Users    *user.Store
	History  *history.Store
}
