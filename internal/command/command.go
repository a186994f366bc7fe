package command

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"demo/grouporders/internal/model"
)

// Type tags an inbound command. The dispatcher decodes chat input into
// exactly one of these; the engine never sees raw command strings.
type Type string

const (
	TypeOpenGroup       Type = "open_group"
	TypeAddItems        Type = "add_items"
	TypeIncrementItem   Type = "increment_item"
	TypeDecrementItem   Type = "decrement_item"
	TypeEditNote        Type = "edit_note"
	TypeDeleteUserOrder Type = "delete_user_order"
	TypeCloseGroup      Type = "close_group"
	TypeSetCloseTime    Type = "set_close_time"
	TypeSelectGroup     Type = "select_group"
)

// Command is one decoded dispatcher request.
type Command struct {
	Type         Type       `json:"type"`
	UserID       string     `json:"user_id"`
	Restaurant   string     `json:"restaurant,omitempty"`
	GroupOrderID string     `json:"group_order_id,omitempty"`
	Text         string     `json:"text,omitempty"`
	Item         string     `json:"item,omitempty"`
	Note         string     `json:"note,omitempty"`
	CloseTime    *time.Time `json:"close_time,omitempty"`
}

func Decode(raw []byte) (Command, error) {
	var c Command
	if err := json.Unmarshal(raw, &c); err != nil {
		return Command{}, fmt.Errorf("decode command: %w", err)
	}
	if c.Type == "" {
		return Command{}, fmt.Errorf("decode command: missing type")
	}
	if c.UserID == "" {
		return Command{}, fmt.Errorf("decode command: missing user_id")
	}
	return c, nil
}

// Engine is the slice of the order service that commands drive.
type Engine interface {
	OpenGroup(ctx context.Context, restaurant, userID string) (model.GroupOrder, error)
	AddItems(ctx context.Context, groupOrderID, userID, rawText string) ([]string, []model.ItemCount, error)
	IncrementItem(ctx context.Context, groupOrderID, userID, item string) ([]string, error)
	DecrementItem(ctx context.Context, groupOrderID, userID, item string) ([]string, error)
	EditItemNote(ctx context.Context, groupOrderID, userID, itemName, newNote string) ([]string, error)
	DeleteUserOrder(ctx context.Context, groupOrderID, userID string) error
	CloseGroup(ctx context.Context, groupOrderID, requesterID string, systemInitiated bool) (model.Summary, error)
	SetCloseTime(ctx context.Context, groupOrderID, requesterID string, closeTime time.Time) error
	SelectGroup(ctx context.Context, userID, groupOrderID string) error
	SelectedGroup(ctx context.Context, userID string) (string, bool, error)
}

// Apply maps one decoded command to one engine call. Item commands that
// carry no group order id fall back to the user's selected group.
func Apply(ctx context.Context, eng Engine, c Command) error {
	switch c.Type {
	case TypeOpenGroup:
		_, err := eng.OpenGroup(ctx, c.Restaurant, c.UserID)
		return err
	case TypeSelectGroup:
		return eng.SelectGroup(ctx, c.UserID, c.GroupOrderID)
	case TypeAddItems:
		gid, err := resolveGroup(ctx, eng, c)
		if err != nil {
			return err
		}
		_, _, err = eng.AddItems(ctx, gid, c.UserID, c.Text)
		return err
	case TypeIncrementItem:
		gid, err := resolveGroup(ctx, eng, c)
		if err != nil {
			return err
		}
		_, err = eng.IncrementItem(ctx, gid, c.UserID, c.Item)
		return err
	case TypeDecrementItem:
		gid, err := resolveGroup(ctx, eng, c)
		if err != nil {
			return err
		}
		_, err = eng.DecrementItem(ctx, gid, c.UserID, c.Item)
		return err
	case TypeEditNote:
		gid, err := resolveGroup(ctx, eng, c)
		if err != nil {
			return err
		}
		_, err = eng.EditItemNote(ctx, gid, c.UserID, c.Item, c.Note)
		return err
	case TypeDeleteUserOrder:
		gid, err := resolveGroup(ctx, eng, c)
		if err != nil {
			return err
		}
		return eng.DeleteUserOrder(ctx, gid, c.UserID)
	case TypeCloseGroup:
		_, err := eng.CloseGroup(ctx, c.GroupOrderID, c.UserID, false)
		return err
	case TypeSetCloseTime:
		if c.CloseTime == nil {
			return fmt.Errorf("set_close_time: missing close_time")
		}
		return eng.SetCloseTime(ctx, c.GroupOrderID, c.UserID, *c.CloseTime)
	default:
		return fmt.Errorf("unknown command type %q", c.Type)
	}
}

func resolveGroup(ctx context.Context, eng Engine, c Command) (string, error) {
	if c.GroupOrderID != "" {
		return c.GroupOrderID, nil
	}
	gid, ok, err := eng.SelectedGroup(ctx, c.UserID)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", model.ErrNotFound
	}
	return gid, nil
}
