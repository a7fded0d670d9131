package service

import (
	"math/rand"
	"sort"
	"time"

	"matjip/datagen-service/internal/app/datagen/config"
)

const visitDateLayout = "2006-01-02"

// GenerateVisitDates генерирует n дат визитов одного пользователя в диапазоне dates.
// Правила: одна дата не повторяется, соседние даты (±1 день) запрещены.
// Три фазы с постепенным ослаблением:
//  1. до n*200 попыток с полной проверкой дистанции до всех выбранных дней;
//  2. добор с проверкой только непосредственных соседей;
//  3. безусловный добор уникальных дней - плотность диапазона важнее правила соседства.
//
// Если n превышает число дней диапазона, возвращаются все дни диапазона.
// Результат отсортирован по возрастанию и сериализован как YYYY-MM-DD.
func GenerateVisitDates(rng *rand.Rand, n int, dates config.DateRangeConfig) []string {
	if n <= 0 {
		return []string{}
	}

	totalDays := dates.TotalDays()
	used := make(map[int]struct{}, n)

	attempts := 0
	maxAttempts := n * 200

	for len(used) < n && attempts < maxAttempts {
		d := rng.Intn(totalDays)
		attempts++
		if hasNeighborWithin(used, d, 2) {
			continue
		}
		used[d] = struct{}{}
	}

	for len(used) < n && attempts < maxAttempts*2 {
		d := rng.Intn(totalDays)
		attempts++
		if _, ok := used[d]; ok {
			continue
		}
		if _, ok := used[d-1]; ok {
			continue
		}
		if _, ok := used[d+1]; ok {
			continue
		}
		used[d] = struct{}{}
	}

	for len(used) < n && len(used) < totalDays {
		d := rng.Intn(totalDays)
		if _, ok := used[d]; ok {
			continue
		}
		used[d] = struct{}{}
	}

	days := make([]int, 0, len(used))
	for d := range used {
		days = append(days, d)
	}
	sort.Ints(days)

	out := make([]string, 0, len(days))
	for _, d := range days {
		out = append(out, dates.Start.Add(time.Duration(d)*24*time.Hour).Format(visitDateLayout))
	}
	return out
}

// hasNeighborWithin проверяет, есть ли среди выбранных дней день на дистанции < dist от d
func hasNeighborWithin(used map[int]struct{}, d, dist int) bool {
	for u := range used {
		diff := u - d
		if diff < 0 {
			diff = -diff
		}
		if diff < dist {
			return true
		}
	}
	return false
}
