package scorepresenter

import "strings"

// Presenter delivers formatted replies without coupling to the transport.
type Presenter struct {
	sendMessage func(room, message string) error
}

func NewPresenter(sendMessage func(room, message string) error) *Presenter {
	return &Presenter{sendMessage: sendMessage}
}

func (p *Presenter) Reply(room, message string) error {
	if p == nil || p.sendMessage == nil {
		return nil
	}
	if strings.TrimSpace(message) == "" {
		return nil
	}
	return p.sendMessage(room, message)
}
