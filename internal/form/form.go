package form

import (
	"errors"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/RozmiDan/driftrace/internal/entity"
)

const (
	MsgRequired = "Campo obrigatório"
	MsgNotNum   = "Valor numérico inválido"
	MsgPositive = "Deve ser maior que zero"
	MsgNegative = "Não pode ser negativo"
)

// Values — текст полей формы как его ввёл пользователь
type Values map[entity.Field]string

// Errors — ошибки по полям, пустая карта значит что всё ок
type Errors map[entity.Field]string

func (e Errors) Error() string {
	parts := make([]string, 0, len(e))
	for _, f := range entity.Fields {
		if msg, ok := e[f]; ok {
			parts = append(parts, string(f)+": "+msg)
		}
	}
	return strings.Join(parts, "; ")
}

// Err возвращает nil для пустой карты, чтобы не получить nil-interface ловушку
func (e Errors) Err() error {
	if len(e) == 0 {
		return nil
	}
	return e
}

var numPrefix = regexp.MustCompile(`^[+-]?(Infinity|(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?)`)

// Lenient повторяет поведение формы: parseFloat(value) || 0
func Lenient(s string) float64 {
	m := numPrefix.FindString(strings.TrimLeft(s, " \t\n\r\v\f"))
	if m == "" {
		return 0
	}
	v, err := strconv.ParseFloat(strings.Replace(m, "Infinity", "Inf", 1), 64)
	if err != nil {
		// слишком большое число: ParseFloat уже вернул ±Inf
		var ne *strconv.NumError
		if !errors.As(err, &ne) || !errors.Is(ne.Err, strconv.ErrRange) {
			return 0
		}
	}
	if v == 0 || math.IsNaN(v) {
		return 0
	}
	return v
}

// ParseLenient никогда не падает, непонятный ввод становится нулём
func ParseLenient(vals Values) entity.RaceParameters {
	return entity.RaceParameters{
		Distance: Lenient(vals[entity.FieldDistance]),
		SpeedA:   Lenient(vals[entity.FieldSpeedA]),
		SpeedB:   Lenient(vals[entity.FieldSpeedB]),
		BonusA:   Lenient(vals[entity.FieldBonusA]),
		BonusB:   Lenient(vals[entity.FieldBonusB]),
	}
}

// Parse — строгий разбор: дистанция и скорости обязательны и > 0,
// бонусы необязательны (пусто = 0) и >= 0
func Parse(vals Values) (entity.RaceParameters, Errors) {
	errs := Errors{}

	p := entity.RaceParameters{
		Distance: positive(vals, entity.FieldDistance, errs),
		SpeedA:   positive(vals, entity.FieldSpeedA, errs),
		SpeedB:   positive(vals, entity.FieldSpeedB, errs),
		BonusA:   bonus(vals, entity.FieldBonusA, errs),
		BonusB:   bonus(vals, entity.FieldBonusB, errs),
	}
	if len(errs) > 0 {
		return entity.RaceParameters{}, errs
	}
	return p, nil
}

func positive(vals Values, f entity.Field, errs Errors) float64 {
	s := strings.TrimSpace(vals[f])
	if s == "" {
		errs[f] = MsgRequired
		return 0
	}
	v, ok := finite(s)
	if !ok {
		errs[f] = MsgNotNum
		return 0
	}
	if v <= 0 {
		errs[f] = MsgPositive
		return 0
	}
	return v
}

func bonus(vals Values, f entity.Field, errs Errors) float64 {
	s := strings.TrimSpace(vals[f])
	if s == "" {
		return 0
	}
	v, ok := finite(s)
	if !ok {
		errs[f] = MsgNotNum
		return 0
	}
	if v < 0 {
		errs[f] = MsgNegative
		return 0
	}
	return v
}

func finite(s string) (float64, bool) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}
