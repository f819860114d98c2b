package roster

import (
	"fmt"
	"time"

	"github.com/escala-app/escala/core/model"
)

// Wire representations follow the gateway's field naming; mapping to the
// core model happens here so nothing upstream depends on the wire shape.

type slotDTO struct {
	EventID       int64   `json:"id_evento"`
	RoleID        int64   `json:"id_funcao"`
	Instance      int     `json:"funcao_instancia"`
	RoleName      string  `json:"nome_funcao"`
	ServiceName   string  `json:"nome_servico"`
	EventDate     string  `json:"data_evento"`
	VolunteerID   *int64  `json:"id_voluntario"`
	VolunteerName *string `json:"nome_voluntario"`
}

func (d slotDTO) toModel() (model.Slot, error) {
	date, err := parseEventDate(d.EventDate)
	if err != nil {
		return model.Slot{}, fmt.Errorf("slot %d-%d-%d: %w", d.EventID, d.RoleID, d.Instance, err)
	}
	s := model.Slot{
		EventID:     d.EventID,
		RoleID:      d.RoleID,
		Instance:    d.Instance,
		RoleName:    d.RoleName,
		ServiceName: d.ServiceName,
		EventDate:   date,
		VolunteerID: d.VolunteerID,
	}
	if d.VolunteerName != nil {
		s.VolunteerName = *d.VolunteerName
	}
	return s, nil
}

// parseEventDate accepts the gateway's calendar date with or without a
// time component and pins it to UTC so day grouping cannot shift.
func parseEventDate(raw string) (time.Time, error) {
	for _, layout := range []string{"2006-01-02", time.RFC3339, "2006-01-02T15:04:05"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable event date %q", raw)
}

type volunteerDTO struct {
	ID     int64  `json:"id_voluntario"`
	Name   string `json:"nome_voluntario"`
	Level  string `json:"nivel_experiencia"`
	Active bool   `json:"ativo"`
	Cap    int    `json:"limite_escalas_mes"`
}

func (d volunteerDTO) toModel() model.Volunteer {
	return model.Volunteer{
		ID:         d.ID,
		Name:       d.Name,
		Level:      d.Level,
		Active:     d.Active,
		MonthlyCap: d.Cap,
	}
}

type candidateDTO struct {
	ID   int64  `json:"id_voluntario"`
	Name string `json:"nome_voluntario"`
}

type slotUpdateDTO struct {
	EventID     int64  `json:"id_evento"`
	RoleID      int64  `json:"id_funcao"`
	Instance    int    `json:"funcao_instancia"`
	VolunteerID *int64 `json:"id_voluntario"`
}

type periodDTO struct {
	Year  int `json:"ano"`
	Month int `json:"mes"`
}
