package catalog

import (
	"context"
	"testing"

	"github.com/yungbote/lifewheel-backend/internal/data/repos/testutil"
	types "github.com/yungbote/lifewheel-backend/internal/domain"
	"github.com/yungbote/lifewheel-backend/internal/platform/dbctx"
)

func TestCatalogReadsAreOrdered(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}
	log := testutil.Logger(t)

	areas := NewLifeAreaRepo(db, log)
	subs := NewSubcategoryRepo(db, log)
	questions := NewQuestionRepo(db, log)

	second := testutil.SeedLifeArea(t, ctx, tx, "Finance", 2)
	first := testutil.SeedLifeArea(t, ctx, tx, "Health", 1)
	s2 := testutil.SeedSubcategory(t, ctx, tx, first.ID, "Exercise", 2)
	s1 := testutil.SeedSubcategory(t, ctx, tx, first.ID, "Sleep", 1)
	s3 := testutil.SeedSubcategory(t, ctx, tx, second.ID, "Savings", 1)
	q2 := testutil.SeedQuestion(t, ctx, tx, s1.ID, 2)
	q1 := testutil.SeedQuestion(t, ctx, tx, s1.ID, 1)

	list, err := areas.List(dbc)
	if err != nil {
		t.Fatalf("List areas: %v", err)
	}
	if idx(list, first.ID) > idx(list, second.ID) {
		t.Fatalf("areas not ordered by display_order")
	}

	byArea, err := subs.ListByLifeArea(dbc, first.ID)
	if err != nil {
		t.Fatalf("ListByLifeArea: %v", err)
	}
	if len(byArea) != 2 || byArea[0].ID != s1.ID || byArea[1].ID != s2.ID {
		t.Fatalf("unexpected subcategories: %+v", byArea)
	}

	all, err := subs.List(dbc)
	if err != nil {
		t.Fatalf("List subcategories: %v", err)
	}
	pos := map[uint]int{}
	for i, s := range all {
		pos[s.ID] = i
	}
	if !(pos[s1.ID] < pos[s2.ID] && pos[s2.ID] < pos[s3.ID]) {
		t.Fatalf("subcategories not ordered by area then own order: %+v", pos)
	}

	qs, err := questions.ListBySubcategory(dbc, s1.ID)
	if err != nil {
		t.Fatalf("ListBySubcategory: %v", err)
	}
	if len(qs) != 2 || qs[0].ID != q1.ID || qs[1].ID != q2.ID {
		t.Fatalf("unexpected question order: %+v", qs)
	}

	existing, err := questions.ExistingIDs(dbc, []uint{q1.ID, q2.ID, q2.ID + 9999})
	if err != nil {
		t.Fatalf("ExistingIDs: %v", err)
	}
	if !existing[q1.ID] || !existing[q2.ID] || existing[q2.ID+9999] {
		t.Fatalf("unexpected existing ids: %+v", existing)
	}

	count, err := areas.CountByIDs(dbc, []uint{first.ID, second.ID, second.ID + 9999})
	if err != nil || count != 2 {
		t.Fatalf("CountByIDs: count=%d err=%v", count, err)
	}

	missing, err := areas.GetByID(dbc, second.ID+9999)
	if err != nil || missing != nil {
		t.Fatalf("GetByID(missing): %+v %v", missing, err)
	}
}

func TestCatalogUpsertsAreIdempotent(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	dbc := dbctx.Context{Ctx: context.Background(), Tx: tx}
	log := testutil.Logger(t)

	areas := NewLifeAreaRepo(db, log)
	subs := NewSubcategoryRepo(db, log)
	questions := NewQuestionRepo(db, log)

	a1, err := areas.UpsertByName(dbc, &types.LifeArea{Name: "Upsert Area", Color: "#111111", DisplayOrder: 1})
	if err != nil {
		t.Fatalf("UpsertByName: %v", err)
	}
	a2, err := areas.UpsertByName(dbc, &types.LifeArea{Name: "Upsert Area", Color: "#222222", DisplayOrder: 5})
	if err != nil {
		t.Fatalf("UpsertByName again: %v", err)
	}
	if a1.ID != a2.ID || a2.Color != "#222222" || a2.DisplayOrder != 5 {
		t.Fatalf("expected in-place update, got first=%+v second=%+v", a1, a2)
	}

	s1, err := subs.UpsertByAreaAndName(dbc, &types.Subcategory{LifeAreaID: a1.ID, Name: "Upsert Sub", DisplayOrder: 1})
	if err != nil {
		t.Fatalf("UpsertByAreaAndName: %v", err)
	}
	s2, err := subs.UpsertByAreaAndName(dbc, &types.Subcategory{LifeAreaID: a1.ID, Name: "Upsert Sub", DisplayOrder: 3})
	if err != nil {
		t.Fatalf("UpsertByAreaAndName again: %v", err)
	}
	if s1.ID != s2.ID || s2.DisplayOrder != 3 {
		t.Fatalf("expected in-place update, got %+v %+v", s1, s2)
	}

	for _, text := range []string{"old", "new"} {
		if err := questions.UpsertBySubcategoryAndOrder(dbc, &types.Question{SubcategoryID: s1.ID, QuestionOrder: 1, QuestionText: text}); err != nil {
			t.Fatalf("UpsertBySubcategoryAndOrder: %v", err)
		}
	}
	qs, err := questions.ListBySubcategory(dbc, s1.ID)
	if err != nil || len(qs) != 1 || qs[0].QuestionText != "new" {
		t.Fatalf("expected one updated question, got %+v err=%v", qs, err)
	}
}

func idx(list []*types.LifeArea, id uint) int {
	for i, a := range list {
		if a.ID == id {
			return i
		}
	}
	return -1
}
