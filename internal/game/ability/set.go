package ability

// BonusSource contributes a flat bonus to an ability's effective score.
type BonusSource interface {
	AbilityBonus(k Key) int
}

// Origins supplies the bonus sources that currently apply, such as the
// selected race and subrace. It is consulted on every read.
type Origins interface {
	AbilityBonusSources() []BonusSource
}

// Bonus is a single chosen or earned increase to one ability.
type Bonus struct {
	Ability Key `yaml:"ability" json:"ability"`
	Value   int `yaml:"value" json:"value"`
}

// Bonuses is a list of Bonus values; the same ability may appear repeatedly.
type Bonuses []Bonus

// AbilityBonus sums every entry for k.
func (b Bonuses) AbilityBonus(k Key) int {
	total := 0
	for _, e := range b {
		if e.Ability == k {
			total += e.Value
		}
	}
	return total
}

// Fixed is a per-ability bonus table such as a race's fixed increases.
type Fixed map[Key]int

// AbilityBonus returns the table entry for k, or 0.
func (f Fixed) AbilityBonus(k Key) int {
	return f[k]
}

// Set holds the six base scores plus accumulated improvement bonuses.
// Effective scores and modifiers are recomputed on every read.
type Set struct {
	base    map[Key]int
	asi     Bonuses
	origins Origins
}

// NewSet returns a Set with every base score at 10.
//
// Precondition: origins may be nil, meaning no race or subrace bonuses.
func NewSet(origins Origins) *Set {
	s := &Set{base: make(map[Key]int, len(Keys)), origins: origins}
	for _, k := range Keys {
		s.base[k] = 10
	}
	return s
}

// SetBase replaces the base score for k. No bounds are enforced.
func (s *Set) SetBase(k Key, value int) {
	s.base[k] = value
}

// AdjustBase adds delta to the base score for k.
func (s *Set) AdjustBase(k Key, delta int) {
	s.base[k] += delta
}

// Base returns the base score for k.
func (s *Set) Base(k Key) int {
	return s.base[k]
}

// AddImprovement records an ability-score-improvement bonus.
func (s *Set) AddImprovement(b Bonus) {
	s.asi = append(s.asi, b)
}

// Improvements returns a copy of the recorded improvement bonuses.
func (s *Set) Improvements() Bonuses {
	out := make(Bonuses, len(s.asi))
	copy(out, s.asi)
	return out
}

// ClearImprovements drops every recorded improvement bonus.
func (s *Set) ClearImprovements() {
	s.asi = nil
}

// Effective returns base + origin bonuses + improvement bonuses for k.
func (s *Set) Effective(k Key) int {
	total := s.base[k] + s.asi.AbilityBonus(k)
	if s.origins != nil {
		for _, src := range s.origins.AbilityBonusSources() {
			if src != nil {
				total += src.AbilityBonus(k)
			}
		}
	}
	return total
}

// Modifier returns floor((Effective(k)-10)/2).
func (s *Set) Modifier(k Key) int {
	return Modifier(s.Effective(k))
}

// Reset puts every base score back to 10 and clears improvements.
func (s *Set) Reset() {
	for _, k := range Keys {
		s.base[k] = 10
	}
	s.asi = nil
}
