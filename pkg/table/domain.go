package table

// Domain partitions the non-ignored, non-weight columns of a table into
// three ordered variable sequences. A Variable belongs to exactly one of
// them; weight columns are tracked by the Table directly and never
// become Variables.
type Domain struct {
	Attributes []*Variable
	ClassVars  []*Variable
	Metas      []*Variable
}

// NewDomain creates a domain from the three partitions.
func NewDomain(attributes, classVars, metas []*Variable) *Domain {
	return &Domain{
		Attributes: attributes,
		ClassVars:  classVars,
		Metas:      metas,
	}
}

// Variables returns all domain variables in partition order:
// attributes, class vars, metas.
func (d *Domain) Variables() []*Variable {
	vars := make([]*Variable, 0, len(d.Attributes)+len(d.ClassVars)+len(d.Metas))
	vars = append(vars, d.Attributes...)
	vars = append(vars, d.ClassVars...)
	vars = append(vars, d.Metas...)
	return vars
}

// HasClass reports whether the domain declares at least one class
// variable.
func (d *Domain) HasClass() bool {
	return len(d.ClassVars) > 0
}
