package chart

import "github.com/admin/astromood/chart-api/internal/domain"

// Simplify сворачивает позиции в planet -> sign и достаёт асцендент.
// Записи без имени планеты или знака пропускаются, при дублях побеждает последняя.
// Асцендент без знака даёт Sign == "", отсутствие асцендента даёт nil.
func Simplify(positions []domain.PlanetPosition) (domain.SimplifiedPlanets, *domain.AscendantRecord) {
	planets := make(domain.SimplifiedPlanets, len(positions))
	var ascendant *domain.AscendantRecord

	for _, p := range positions {
		name, ok := p.PlanetName()
		if !ok {
			continue
		}
		sign, hasSign := p.SignName()

		if name == domain.AscendantPlanetName {
			ascendant = &domain.AscendantRecord{Sign: sign}
		}
		if hasSign {
			planets[name] = sign
		}
	}

	return planets, ascendant
}
