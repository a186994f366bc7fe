package command

import (
	"context"
	"testing"
	"time"

	"demo/grouporders/internal/model"

	"github.com/stretchr/testify/require"
)

type fakeEngine struct {
	calls    []string
	gid      string
	selected string
	hasSel   bool
}

func (f *fakeEngine) record(name, gid string) {
	f.calls = append(f.calls, name)
	f.gid = gid
}

func (f *fakeEngine) OpenGroup(ctx context.Context, restaurant, userID string) (model.GroupOrder, error) {
	f.record("open:"+restaurant+":"+userID, "")
	return model.GroupOrder{ID: "g1"}, nil
}

func (f *fakeEngine) AddItems(ctx context.Context, groupOrderID, userID, rawText string) ([]string, []model.ItemCount, error) {
	f.record("add:"+rawText, groupOrderID)
	return nil, nil, nil
}

func (f *fakeEngine) IncrementItem(ctx context.Context, groupOrderID, userID, item string) ([]string, error) {
	f.record("inc:"+item, groupOrderID)
	return nil, nil
}

func (f *fakeEngine) DecrementItem(ctx context.Context, groupOrderID, userID, item string) ([]string, error) {
	f.record("dec:"+item, groupOrderID)
	return nil, nil
}

func (f *fakeEngine) EditItemNote(ctx context.Context, groupOrderID, userID, itemName, newNote string) ([]string, error) {
	f.record("note:"+itemName+":"+newNote, groupOrderID)
	return nil, nil
}

func (f *fakeEngine) DeleteUserOrder(ctx context.Context, groupOrderID, userID string) error {
	f.record("delete:"+userID, groupOrderID)
	return nil
}

func (f *fakeEngine) CloseGroup(ctx context.Context, groupOrderID, requesterID string, systemInitiated bool) (model.Summary, error) {
	f.record("close:"+requesterID, groupOrderID)
	return model.Summary{}, nil
}

func (f *fakeEngine) SetCloseTime(ctx context.Context, groupOrderID, requesterID string, closeTime time.Time) error {
	f.record("deadline", groupOrderID)
	return nil
}

func (f *fakeEngine) SelectGroup(ctx context.Context, userID, groupOrderID string) error {
	f.record("select:"+userID, groupOrderID)
	return nil
}

func (f *fakeEngine) SelectedGroup(ctx context.Context, userID string) (string, bool, error) {
	return f.selected, f.hasSel, nil
}

func TestDecode(t *testing.T) {
	c, err := Decode([]byte(`{"type":"add_items","user_id":"bob","text":"紅茶 綠茶"}`))
	require.NoError(t, err)
	require.Equal(t, TypeAddItems, c.Type)
	require.Equal(t, "bob", c.UserID)
	require.Equal(t, "紅茶 綠茶", c.Text)
}

func TestDecode_Invalid(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"bad json", `{`},
		{"missing type", `{"user_id":"bob"}`},
		{"missing user", `{"type":"add_items"}`},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Decode([]byte(tc.raw))
			require.Error(t, err)
		})
	}
}

func TestApply_OpenGroup(t *testing.T) {
	eng := &fakeEngine{}
	err := Apply(context.Background(), eng, Command{Type: TypeOpenGroup, UserID: "alice", Restaurant: "50嵐"})
	require.NoError(t, err)
	require.Equal(t, []string{"open:50嵐:alice"}, eng.calls)
}

func TestApply_ExplicitGroupID(t *testing.T) {
	eng := &fakeEngine{}
	err := Apply(context.Background(), eng, Command{
		Type: TypeAddItems, UserID: "bob", GroupOrderID: "g7", Text: "紅茶",
	})
	require.NoError(t, err)
	require.Equal(t, "g7", eng.gid)
}

func TestApply_FallsBackToSelectedGroup(t *testing.T) {
	eng := &fakeEngine{selected: "g9", hasSel: true}
	err := Apply(context.Background(), eng, Command{Type: TypeAddItems, UserID: "bob", Text: "紅茶"})
	require.NoError(t, err)
	require.Equal(t, "g9", eng.gid)
}

func TestApply_NoGroupAndNoSelection(t *testing.T) {
	eng := &fakeEngine{}
	err := Apply(context.Background(), eng, Command{Type: TypeIncrementItem, UserID: "bob", Item: "紅茶"})
	require.ErrorIs(t, err, model.ErrNotFound)
	require.Empty(t, eng.calls)
}

func TestApply_CloseGroup(t *testing.T) {
	eng := &fakeEngine{}
	err := Apply(context.Background(), eng, Command{Type: TypeCloseGroup, UserID: "alice", GroupOrderID: "g1"})
	require.NoError(t, err)
	require.Equal(t, []string{"close:alice"}, eng.calls)
	require.Equal(t, "g1", eng.gid)
}

func TestApply_SetCloseTime_MissingDeadline(t *testing.T) {
	eng := &fakeEngine{}
	err := Apply(context.Background(), eng, Command{Type: TypeSetCloseTime, UserID: "alice", GroupOrderID: "g1"})
	require.Error(t, err)
	require.Empty(t, eng.calls)
}

func TestApply_EditNote(t *testing.T) {
	eng := &fakeEngine{selected: "g2", hasSel: true}
	err := Apply(context.Background(), eng, Command{
		Type: TypeEditNote, UserID: "bob", Item: "珍奶", Note: "半糖",
	})
	require.NoError(t, err)
	require.Equal(t, []string{"note:珍奶:半糖"}, eng.calls)
	require.Equal(t, "g2", eng.gid)
}

func TestApply_UnknownType(t *testing.T) {
	eng := &fakeEngine{}
	err := Apply(context.Background(), eng, Command{Type: "dance", UserID: "bob"})
	require.Error(t, err)
	require.Empty(t, eng.calls)
}
