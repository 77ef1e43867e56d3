package stats

// SummarizeLibrary sums up copies over all titles.
// IssuedBooks is floored at 0 when the titles report more available copies than they own.
func SummarizeLibrary(books []LibraryBook) LibraryAvailability {
	var la LibraryAvailability
	for _, b := range books {
		la.TotalBooks += b.TotalCopies
		la.AvailableBooks += b.AvailableCopies
	}
	if issued := la.TotalBooks - la.AvailableBooks; issued > 0 {
		la.IssuedBooks = issued
	}
	la.TitleCount = len(books)
	return la
}
