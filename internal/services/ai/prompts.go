package ai

import "fmt"

// notesPrompt формирует промпт для генерации заметок о станции
func notesPrompt(locationName, address string) string {
	return fmt.Sprintf(`Ты помощник оператора сети зарядных станций для электромобилей.
Составь короткую служебную заметку (2-3 предложения, на русском языке)
о зарядной станции для карточки учёта. Без маркдауна и списков.

Локация: %s
Адрес: %s`, locationName, address)
}
