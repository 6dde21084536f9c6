package entity

import (
	"encoding/json"
	"math"
	"strconv"
)

// jsonFloat пишет ±Inf и NaN как null, как это делает JSON.stringify
type jsonFloat float64

func (f jsonFloat) MarshalJSON() ([]byte, error) {
	v := float64(f)
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return []byte("null"), nil
	}
	return strconv.AppendFloat(nil, v, 'g', -1, 64), nil
}

func (p RaceParameters) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Distance jsonFloat `json:"distancia"`
		SpeedA   jsonFloat `json:"velocidadeDesafiante"`
		SpeedB   jsonFloat `json:"velocidadeDK"`
		BonusA   jsonFloat `json:"bonusDriftDesafiante"`
		BonusB   jsonFloat `json:"bonusDriftDK"`
	}{
		jsonFloat(p.Distance), jsonFloat(p.SpeedA), jsonFloat(p.SpeedB),
		jsonFloat(p.BonusA), jsonFloat(p.BonusB),
	})
}

func (o RaceOutcome) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Params         RaceParameters `json:"params"`
		BaseTimeA      jsonFloat      `json:"baseTimeA"`
		BaseTimeB      jsonFloat      `json:"baseTimeB"`
		FinalTimeA     jsonFloat      `json:"tempoDesafiante"`
		FinalTimeB     jsonFloat      `json:"tempoDK"`
		WinningTime    jsonFloat      `json:"tempoVencedor"`
		MaxSpeed       jsonFloat      `json:"velocidadeMaxima"`
		TimeDifference jsonFloat      `json:"diferenca"`
	}{
		Params:         o.Params,
		BaseTimeA:      jsonFloat(o.BaseTimeA),
		BaseTimeB:      jsonFloat(o.BaseTimeB),
		FinalTimeA:     jsonFloat(o.FinalTimeA),
		FinalTimeB:     jsonFloat(o.FinalTimeB),
		WinningTime:    jsonFloat(o.WinningTime),
		MaxSpeed:       jsonFloat(o.MaxSpeed),
		TimeDifference: jsonFloat(o.TimeDifference),
	})
}
