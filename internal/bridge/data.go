// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package bridge

import "fmt"

// Email is a mailbox entry.
type Email struct {
	ID      int
	Sender  string
	Subject string
	Preview string
	Time    string
	Read    bool
}

// Chat is a WhatsApp conversation summary.
type Chat struct {
	Name        string
	LastMessage string
	Time        string
	Unread      int
}

// Message is an SMS inbox entry.
type Message struct {
	ID     int
	Sender string
	Body   string
	Time   string
}

// Place is a maps search hit.
type Place struct {
	Name     string
	Address  string
	Distance string
}

// Feeds is the read side of the device: inbox, mailbox and chat lists.
// There is no content provider access, so the data is canned.
type Feeds struct{}

// Emails returns the most recent emails.
func (Feeds) Emails() []Email {
	return []Email{
		{ID: 1, Sender: "Amazon", Subject: "Order Confirmed", Preview: "Your order has been shipped...", Time: "14:20"},
		{ID: 2, Sender: "GitHub", Subject: "Repository Update", Preview: "New commits in your repo...", Time: "13:45", Read: true},
	}
}

// Chats returns the WhatsApp chat list.
func (Feeds) Chats() []Chat {
	return []Chat{
		{Name: "Mom", LastMessage: "Call me when free", Time: "14:22", Unread: 2},
		{Name: "John", LastMessage: "Files uploaded", Time: "13:40"},
	}
}

// Messages returns the SMS inbox.
func (Feeds) Messages() []Message {
	return []Message{
		{ID: 1, Sender: "Mom", Body: "Call me when free...", Time: "14:25"},
		{ID: 2, Sender: "John", Body: "Running late...", Time: "13:48"},
		{ID: 3, Sender: "Bank", Body: "OTP: 458792", Time: "12:30"},
	}
}

// SearchPlaces returns places matching query.
func (Feeds) SearchPlaces(query string) []Place {
	return []Place{
		{Name: fmt.Sprintf("%s 1", query), Address: "123 Main St", Distance: "0.5 km"},
		{Name: fmt.Sprintf("%s 2", query), Address: "456 Oak Ave", Distance: "0.8 km"},
	}
}
