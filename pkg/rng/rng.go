package rng

// Source - детерминированный генератор псевдослучайных чисел (mulberry32).
// Одинаковый сид всегда дает одинаковую последовательность - на этом держится
// вся воспроизводимость: генерация подземелья, броски в бою, реплеи.
//
// НЕ потокобезопасен. Каждый потребитель создает свой Source.
type Source struct {
	state uint32
}

// New создает генератор с указанным сидом.
func New(seed uint32) *Source {
	return &Source{state: seed}
}

// Next возвращает следующее 32-битное значение последовательности.
func (s *Source) Next() uint32 {
	s.state += 0x6D2B79F5
	z := s.state
	z = (z ^ (z >> 15)) * (z | 1)
	z ^= z + (z^(z>>7))*(z|61)
	return z ^ (z >> 14)
}

// Float64 возвращает число в диапазоне [0, 1).
func (s *Source) Float64() float64 {
	return float64(s.Next()) / 4294967296.0
}

// IntN возвращает число в диапазоне [0, n). Паникует при n <= 0.
func (s *Source) IntN(n int) int {
	if n <= 0 {
		panic("rng: IntN with non-positive n")
	}
	return int(s.Next() % uint32(n))
}

// Range возвращает число в диапазоне [min, max] включительно.
func (s *Source) Range(min, max int) int {
	return s.IntN(max-min+1) + min
}

// Chance бросает процентный шанс против [0, 100).
func (s *Source) Chance(percent float64) bool {
	return s.Float64()*100.0 < percent
}

// Hash32 - FNV-1a хеш строки. Используется для подмешивания ID актора
// в сид, чтобы разные акторы в пределах одного хода получали разные броски.
func Hash32(s string) uint32 {
	var h uint32 = 2166136261
	for i := 0; i < len(s); i++ {
		h ^= uint32(s[i])
		h *= 16777619
	}
	return h
}
