package core

// Validate checks that a chunk carries the fields every downstream component
// relies on.
func (c *Chunk) Validate() error {
	if c.Text == "" {
		return ErrEmptyChunkText
	}
	if c.Team == "" {
		return ErrEmptyTeam
	}
	return nil
}

// Validate checks that a team score is within the documented range.
func (s *TeamScore) Validate() error {
	if s.Confidence < 5.0 || s.Confidence > 100.0 {
		return ErrInvalidConfidence
	}
	return nil
}
