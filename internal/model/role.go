package model

type MessageRole string

const (
	MessageRoleUser      = MessageRole("user")
	MessageRoleAssistant = MessageRole("assistant")
	MessageRoleSystem    = MessageRole("system")
)

func ParseMessageRole(s string) MessageRole {
	switch s {
	case "assistant":
		return MessageRoleAssistant
	case "system":
		return MessageRoleSystem
	default:
		return MessageRoleUser
	}
}
