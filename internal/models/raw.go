package models

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// RawRoutine is a routine record as returned by the gym backend. The backend
// mixes English and Spanish keys depending on which screen created the record,
// so both spellings are decoded and coalesced later.
type RawRoutine struct {
	ID            string          `json:"_id,omitempty"`
	Name          string          `json:"name,omitempty"`
	Nombre        string          `json:"nombre,omitempty"`
	Frequency     FlexString      `json:"frequency,omitempty"`
	Frecuencia    FlexString      `json:"frecuencia,omitempty"`
	Focus         string          `json:"focus,omitempty"`
	Enfoque       string          `json:"enfoque,omitempty"`
	Status        string          `json:"status,omitempty"`
	Estado        string          `json:"estado,omitempty"`
	Exercises     []ExerciseEntry `json:"exercises,omitempty"`
	Dias          []RawDay        `json:"dias,omitempty"`
	GeneratedText string          `json:"generatedText,omitempty"`
	Objetivo      string          `json:"objetivo,omitempty"`
	Nivel         string          `json:"nivel,omitempty"`
	Resumen       map[string]any  `json:"resumen,omitempty"`
}

// ExerciseEntry is one element of an exercise list. The backend stores either
// a raw text line or a structured object; Text is set for the former.
type ExerciseEntry struct {
	Text  string
	Name  string
	Sets  string
	Reps  string
	Rest  string
	Done  bool
	IsRaw bool
}

type exerciseEntryObject struct {
	Name         string     `json:"name"`
	Nombre       string     `json:"nombre"`
	Sets         FlexString `json:"sets"`
	Series       FlexString `json:"series"`
	Reps         FlexString `json:"reps"`
	Repeticiones FlexString `json:"repeticiones"`
	Rest         FlexString `json:"rest"`
	Descanso     FlexString `json:"descanso"`
	Done         bool       `json:"done"`
	Completado   bool       `json:"completado"`
}

func (e *ExerciseEntry) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*e = ExerciseEntry{}
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*e = ExerciseEntry{Text: s, IsRaw: true}
		return nil
	}
	var obj exerciseEntryObject
	if err := json.Unmarshal(data, &obj); err != nil {
		// Unknown shape: keep an empty entry rather than failing the whole record.
		*e = ExerciseEntry{}
		return nil
	}
	*e = ExerciseEntry{
		Name: firstNonEmpty(obj.Name, obj.Nombre),
		Sets: firstNonEmpty(string(obj.Sets), string(obj.Series)),
		Reps: firstNonEmpty(string(obj.Reps), string(obj.Repeticiones)),
		Rest: firstNonEmpty(string(obj.Rest), string(obj.Descanso)),
		Done: obj.Done || obj.Completado,
	}
	return nil
}

// RawDay is one day of a generated plan: either a text block or an object
// holding that day's exercises.
type RawDay struct {
	Text      string
	Exercises []ExerciseEntry
}

type rawDayObject struct {
	Ejercicios []ExerciseEntry `json:"ejercicios"`
	Exercises  []ExerciseEntry `json:"exercises"`
}

func (d *RawDay) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*d = RawDay{}
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*d = RawDay{Text: s}
		return nil
	}
	var obj rawDayObject
	if err := json.Unmarshal(data, &obj); err != nil {
		*d = RawDay{}
		return nil
	}
	ex := obj.Ejercicios
	if len(ex) == 0 {
		ex = obj.Exercises
	}
	*d = RawDay{Exercises: ex}
	return nil
}

// RawClass is a class record as returned by the gym backend.
type RawClass struct {
	ID           string   `json:"_id,omitempty"`
	Name         string   `json:"name,omitempty"`
	Nombre       string   `json:"nombre,omitempty"`
	ScheduleISO  string   `json:"scheduleISO,omitempty"`
	Hour         string   `json:"hour,omitempty"`
	Hora         string   `json:"hora,omitempty"`
	Room         string   `json:"room,omitempty"`
	Sala         string   `json:"sala,omitempty"`
	Trainer      FlexName `json:"trainer,omitempty"`
	Entrenador   FlexName `json:"entrenador,omitempty"`
	Capacity     FlexInt  `json:"capacity,omitempty"`
	Capacidad    FlexInt  `json:"capacidad,omitempty"`
	Reservations FlexInt  `json:"reservations,omitempty"`
	Reservas     FlexInt  `json:"reservas,omitempty"`
}

// ToClassSession coalesces the bilingual fields into a ClassSession.
func (c RawClass) ToClassSession() ClassSession {
	capacity := int(c.Capacity)
	if capacity == 0 {
		capacity = int(c.Capacidad)
	}
	reservations := int(c.Reservations)
	if reservations == 0 {
		reservations = int(c.Reservas)
	}
	return ClassSession{
		ID:           StringPtr(c.ID),
		Name:         firstNonEmpty(c.Name, c.Nombre),
		ScheduleISO:  StringPtr(strings.TrimSpace(c.ScheduleISO)),
		Hour:         StringPtr(firstNonEmpty(c.Hour, c.Hora)),
		Room:         StringPtr(firstNonEmpty(c.Room, c.Sala)),
		Trainer:      StringPtr(firstNonEmpty(string(c.Trainer), string(c.Entrenador))),
		Capacity:     capacity,
		Reservations: reservations,
	}
}

// FlexString decodes a JSON string or number into its string form.
// Any other shape decodes to "".
type FlexString string

func (f *FlexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		*f = ""
		return nil
	}
	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = FlexString(strings.TrimSpace(s))
	case '-', '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
		*f = FlexString(string(data))
	default:
		*f = ""
	}
	return nil
}

// FlexInt decodes a JSON number, a numeric string, or an array (its length).
// Reservations are sometimes sent as the list of reservation ids.
type FlexInt int

func (f *FlexInt) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		*f = 0
		return nil
	}
	switch data[0] {
	case '[':
		var items []json.RawMessage
		if err := json.Unmarshal(data, &items); err != nil {
			*f = 0
			return nil
		}
		*f = FlexInt(len(items))
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		n, err := strconv.Atoi(strings.TrimSpace(s))
		if err != nil {
			n = 0
		}
		*f = FlexInt(n)
	default:
		var n float64
		if err := json.Unmarshal(data, &n); err != nil {
			*f = 0
			return nil
		}
		*f = FlexInt(int(n))
	}
	return nil
}

// FlexName decodes either a plain string or a populated reference object
// such as {"_id": "...", "name": "Ana"}.
type FlexName string

func (f *FlexName) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		*f = ""
		return nil
	}
	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = FlexName(s)
	case '{':
		var obj struct {
			Name   string `json:"name"`
			Nombre string `json:"nombre"`
		}
		if err := json.Unmarshal(data, &obj); err != nil {
			*f = ""
			return nil
		}
		*f = FlexName(firstNonEmpty(obj.Name, obj.Nombre))
	default:
		*f = ""
	}
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
