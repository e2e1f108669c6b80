package domain_test

import (
	"testing"
	"time"

	"github.com/samirrijal/solarmap/internal/core/domain"
)

var t0 = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func newSession() *domain.MapSession {
	return &domain.MapSession{ID: "s1", CreatedAt: t0, UpdatedAt: t0}
}

func TestSelect_DataOverlayLifecycle(t *testing.T) {
	s := newSession()
	table := domain.DefaultOverlayTable()

	c := s.Select(domain.OptionTemperature, table, t0.Add(time.Second))
	if c.Action != domain.ActionInstalled || c.Slot != domain.SlotData || c.Previous != nil {
		t.Fatalf("unexpected change %+v", c)
	}
	if s.Data == nil || s.Data.URLTemplate != domain.TemperatureURLTemplate || s.Data.Level != 1 {
		t.Fatalf("unexpected data overlay %+v", s.Data)
	}
	if !s.LegendVisible {
		t.Error("legend should be visible for temperature")
	}
	if !s.UpdatedAt.Equal(t0.Add(time.Second)) {
		t.Errorf("UpdatedAt not advanced: %v", s.UpdatedAt)
	}

	c = s.Select(domain.OptionPrecipitation, table, t0.Add(2*time.Second))
	if c.Action != domain.ActionReplaced {
		t.Fatalf("expected replaced, got %s", c.Action)
	}
	if c.Previous.Option != domain.OptionTemperature || c.Current.Option != domain.OptionPrecipitation {
		t.Errorf("unexpected previous/current %+v / %+v", c.Previous, c.Current)
	}
	if s.LegendVisible {
		t.Error("legend should be hidden for precipitation")
	}

	c = s.Select(domain.OptionNone, table, t0.Add(3*time.Second))
	if c.Action != domain.ActionRemoved || s.Data != nil {
		t.Fatalf("none should clear data slot, got %+v", c)
	}
	if c.Previous.Option != domain.OptionPrecipitation {
		t.Errorf("expected precipitation removed, got %+v", c.Previous)
	}

	c = s.Select(domain.OptionNone, table, t0.Add(4*time.Second))
	if c.Changed() {
		t.Errorf("none on empty slot should be unchanged, got %s", c.Action)
	}
	if !s.UpdatedAt.Equal(t0.Add(3 * time.Second)) {
		t.Errorf("unchanged selection must not touch UpdatedAt, got %v", s.UpdatedAt)
	}
}

func TestSelect_SameTemplateIsNoop(t *testing.T) {
	s := newSession()
	table := domain.DefaultOverlayTable()

	s.Select(domain.OptionWindSpeed, table, t0)
	installed := s.Data

	c := s.Select(domain.OptionWindSpeed, table, t0.Add(time.Minute))
	if c.Changed() {
		t.Fatalf("expected unchanged, got %s", c.Action)
	}
	if s.Data != installed {
		t.Error("overlay was reinstalled")
	}
	if c.Current != installed {
		t.Error("unchanged selection should report the active overlay")
	}
}

func TestSelect_SlotsAreIndependent(t *testing.T) {
	s := newSession()
	table := domain.DefaultOverlayTable()

	s.Select(domain.OptionTemperature, table, t0)
	c := s.Select(domain.OptionTerrain, table, t0)
	if c.Slot != domain.SlotBase || c.Action != domain.ActionInstalled {
		t.Fatalf("unexpected change %+v", c)
	}
	if s.Base == nil || !s.Base.CanReplaceMapContent || s.Base.Level != 0 {
		t.Errorf("unexpected base overlay %+v", s.Base)
	}
	if s.Data == nil || s.Data.Option != domain.OptionTemperature {
		t.Error("base selection touched the data slot")
	}

	c = s.Select(domain.OptionGoogleTerrain, table, t0)
	if c.Action != domain.ActionReplaced || c.Previous.Option != domain.OptionTerrain {
		t.Errorf("expected terrain replaced, got %+v", c)
	}
	if !s.LegendVisible {
		t.Error("base selection changed legend visibility")
	}

	c = s.Select(domain.OptionDefaultMap, table, t0)
	if c.Action != domain.ActionRemoved || s.Base != nil {
		t.Errorf("default should clear base slot, got %+v", c)
	}
	if s.Data == nil {
		t.Error("default cleared the data slot")
	}
}

func TestSelect_CitiesAnnotationsToggle(t *testing.T) {
	s := newSession()
	table := domain.DefaultOverlayTable()

	c := s.Select(domain.OptionCitiesAnnotations, table, t0)
	if !s.AnnotationsVisible || c.Action != domain.ActionInstalled || c.Slot != domain.SlotAnnotations {
		t.Fatalf("expected annotations shown, got %+v", c)
	}
	c = s.Select(domain.OptionCitiesAnnotations, table, t0)
	if s.AnnotationsVisible || c.Action != domain.ActionRemoved {
		t.Fatalf("expected annotations hidden, got %+v", c)
	}
	if s.Base != nil || s.Data != nil {
		t.Error("annotations toggled a tile slot")
	}
}

func TestSelect_MissingTemplateClearsSlot(t *testing.T) {
	s := newSession()
	table := domain.DefaultOverlayTable()
	s.Select(domain.OptionPressure, table, t0)

	sparse := domain.OverlayTable{domain.OptionTemperature: "http://t/{z}/{x}/{y}"}
	c := s.Select(domain.OptionWindSpeed, sparse, t0)
	if c.Action != domain.ActionRemoved || s.Data != nil {
		t.Errorf("expected data slot cleared, got %+v", c)
	}
}

func TestSelect_SequenceLeavesAtMostOneOverlayPerSlot(t *testing.T) {
	s := newSession()
	table := domain.DefaultOverlayTable()
	seq := []domain.MapOption{
		domain.OptionTemperature, domain.OptionTerrain, domain.OptionWindSpeed,
		domain.OptionWindSpeed, domain.OptionNone, domain.OptionPressure,
		domain.OptionGoogleTerrain, domain.OptionDefaultMap, domain.OptionTemperature,
	}
	for _, o := range seq {
		s.Select(o, table, t0)
		if s.Base != nil && s.Base.Slot != domain.SlotBase {
			t.Fatalf("base slot holds %+v", s.Base)
		}
		if s.Data != nil && s.Data.Slot != domain.SlotData {
			t.Fatalf("data slot holds %+v", s.Data)
		}
		if s.LegendVisible != (s.Data != nil && s.Data.Option == domain.OptionTemperature) {
			t.Fatalf("legend %v inconsistent with data %+v after %s", s.LegendVisible, s.Data, o)
		}
	}
	if s.Base != nil || s.Data == nil || s.Data.Option != domain.OptionTemperature {
		t.Errorf("unexpected final state base=%+v data=%+v", s.Base, s.Data)
	}
}

func TestMapSession_Overlay(t *testing.T) {
	s := newSession()
	s.Select(domain.OptionTerrain, domain.DefaultOverlayTable(), t0)

	if s.Overlay(domain.SlotBase) != s.Base {
		t.Error("Overlay(base) mismatch")
	}
	if s.Overlay(domain.SlotData) != nil {
		t.Error("Overlay(data) should be nil")
	}
	if s.Overlay(domain.SlotAnnotations) != nil {
		t.Error("annotations have no tile overlay")
	}
}

func TestSelect_NoneHidesTemperatureLegend(t *testing.T) {
	s := newSession()
	table := domain.DefaultOverlayTable()

	s.Select(domain.OptionTemperature, table, t0)
	c := s.Select(domain.OptionNone, table, t0)
	if c.Action != domain.ActionRemoved || c.Previous.Option != domain.OptionTemperature {
		t.Fatalf("unexpected change %+v", c)
	}
	if s.LegendVisible {
		t.Error("legend should follow the data layer and hide once it is cleared")
	}
}
