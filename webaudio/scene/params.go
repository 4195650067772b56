package scene

import "math"

// Params holds the parsed parameters of one scene node.
type Params struct {
	ID   string
	Type string
	Num  map[string]float64
	Str  map[string]string
	List map[string][]float64
}

// GetNum returns a numeric parameter, or def if it is missing or not
// finite.
func (p Params) GetNum(key string, def float64) float64 {
	v, ok := p.Num[key]
	if !ok || math.IsNaN(v) || math.IsInf(v, 0) {
		return def
	}
	return v
}

// HasNum reports whether a numeric parameter is present.
func (p Params) HasNum(key string) bool {
	_, ok := p.Num[key]
	return ok
}

// GetStr returns a string parameter, or def if it is missing.
func (p Params) GetStr(key, def string) string {
	if v, ok := p.Str[key]; ok {
		return v
	}
	return def
}

// parseParams splits a raw JSON object into numbers, strings and numeric
// arrays. Booleans become 0 or 1; anything else is dropped.
func parseParams(raw map[string]any) (map[string]float64, map[string]string, map[string][]float64) {
	num := map[string]float64{}
	str := map[string]string{}
	list := map[string][]float64{}

	for k, v := range raw {
		switch t := v.(type) {
		case float64:
			num[k] = t
		case string:
			str[k] = t
		case bool:
			if t {
				num[k] = 1
			} else {
				num[k] = 0
			}
		case []any:
			vals := make([]float64, 0, len(t))
			for _, e := range t {
				if f, ok := e.(float64); ok {
					vals = append(vals, f)
				}
			}
			list[k] = vals
		}
	}
	return num, str, list
}
