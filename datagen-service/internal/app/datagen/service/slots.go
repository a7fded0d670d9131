package service

import (
	"matjip/datagen-service/internal/app/datagen/entity"
)

// FlattenSlots превращает планы визитов в плоский список слотов.
// Пользователи чередуются по кругу VIP[i], LOYAL[i], REGULAR[i], чтобы батчи
// не состояли из одних только тяжёлых VIP-планов. План одного пользователя
// никогда не рвётся: все его слоты идут подряд.
func FlattenSlots(
	gen *GenContext,
	cohorts *Cohorts,
	plans map[int64][]entity.VisitStop,
	restByID map[int64]entity.Restaurant,
) []entity.Slot {
	buckets := [][]int64{cohorts.VIP, cohorts.Loyal, cohorts.Regular}

	maxLen := 0
	for _, b := range buckets {
		if len(b) > maxLen {
			maxLen = len(b)
		}
	}

	var slots []entity.Slot
	for i := 0; i < maxLen; i++ {
		for _, bucket := range buckets {
			if i >= len(bucket) {
				continue
			}
			uid := bucket[i]
			for _, stop := range plans[uid] {
				r := restByID[stop.RestaurantID]
				slots = append(slots, entity.Slot{
					SlotID:                gen.NextSlotID(),
					UserID:                uid,
					RestaurantID:          stop.RestaurantID,
					RestaurantName:        r.Name,
					RestaurantDescription: r.Description,
					VisitedAt:             stop.VisitedAt,
				})
			}
		}
	}

	return slots
}

// PackSlots жадно упаковывает слоты в батчи: закрываем батч, как только
// набрали target; hardMax - страховка, батч не может быть больше.
// Порядок слотов сохраняется, последний батч может быть меньше target.
func PackSlots(slots []entity.Slot, target, hardMax int) [][]entity.Slot {
	var batches [][]entity.Slot
	var current []entity.Slot

	for _, slot := range slots {
		current = append(current, slot)
		if len(current) >= target {
			if len(current) > hardMax {
				current = current[:hardMax]
			}
			batches = append(batches, current)
			current = nil
		}
	}
	if len(current) > 0 {
		batches = append(batches, current)
	}

	return batches
}
