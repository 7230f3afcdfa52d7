package engine

// Summarize derives the report statistics from a run's records: total row
// count, rows with a non-zero volume, rows without data, and the mean
// search volume over rows that carry data.
func Summarize(records []ResultRecord) Summary {
	s := Summary{TotalKeywords: len(records)}

	var volumeSum int64
	var withData int
	for _, rec := range records {
		if !rec.HasData() {
			s.WithoutData++
			continue
		}
		withData++
		volumeSum += rec.SearchVolume
		if rec.SearchVolume > 0 {
			s.WithVolume++
		}
	}

	if withData > 0 {
		s.MeanVolume = float64(volumeSum) / float64(withData)
	}
	return s
}
