package gcal

import (
	"context"
	"fmt"
	"time"

	"google.golang.org/api/calendar/v3"
)

func (g *Gateway) buildEvent(name, service string, start time.Time, durationHours int) *calendar.Event {
	startLocal := start.In(g.loc)
	endLocal := startLocal.Add(time.Duration(durationHours) * time.Hour)

	return &calendar.Event{
		Summary: fmt.Sprintf("%s - %s", name, service),
		Start: &calendar.EventDateTime{
			DateTime: startLocal.Format(time.RFC3339),
			TimeZone: g.loc.String(),
		},
		End: &calendar.EventDateTime{
			DateTime: endLocal.Format(time.RFC3339),
			TimeZone: g.loc.String(),
		},
	}
}

// CreateEvent создаёт событие и возвращает его ID
func (g *Gateway) CreateEvent(ctx context.Context, name, service string, start time.Time, durationHours int) (string, error) {
	event := g.buildEvent(name, service, start, durationHours)

	var created *calendar.Event
	err := g.withRetry(ctx, "calendar insert", func() error {
		var err error
		created, err = g.cal.Events.Insert(g.calendarID, event).Context(ctx).Do()
		return err
	})
	if err != nil {
		return "", fmt.Errorf("insert calendar event: %w", err)
	}

	return created.Id, nil
}

// UpdateEvent обновляет время и название события
func (g *Gateway) UpdateEvent(ctx context.Context, eventID, name, service string, start time.Time, durationHours int) error {
	if eventID == "" {
		return fmt.Errorf("empty event id")
	}

	event := g.buildEvent(name, service, start, durationHours)

	err := g.withRetry(ctx, "calendar patch", func() error {
		_, err := g.cal.Events.Patch(g.calendarID, eventID, event).Context(ctx).Do()
		return err
	})
	if err != nil {
		return fmt.Errorf("patch calendar event: %w", err)
	}

	return nil
}

// DeleteEvent удаляет событие. Отсутствующее событие (например, удалённое
// вручную) считается успешно удалённым.
func (g *Gateway) DeleteEvent(ctx context.Context, eventID string) error {
	if eventID == "" {
		return fmt.Errorf("empty event id")
	}

	err := g.withRetry(ctx, "calendar delete", func() error {
		err := g.cal.Events.Delete(g.calendarID, eventID).Context(ctx).Do()
		if err != nil && isNotFound(err) {
			return nil
		}
		return err
	})
	if err != nil {
		return fmt.Errorf("delete calendar event: %w", err)
	}

	return nil
}
