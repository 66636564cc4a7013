package data

// View is a filter over one shared Dataset: the rows whose indicator equals
// (or, for the complement, does not equal) a membership value. Row sets are
// recomputed on every read, so a view always sees the dataset's current values
// and never holds a copy of its own.
type View struct {
	ds         *Dataset
	name       string
	indicator  string
	membership float64
	member     bool
}

// Partition splits ds into the rows whose indicator equals membership and all
// remaining rows, including rows with a missing indicator. The two views are
// disjoint and together cover every row.
func Partition(ds *Dataset, indicator string, membership float64) (member, nonMember *View, err error) {
	return PartitionNamed(ds, indicator, membership, "member", "non-member")
}

// PartitionNamed is Partition with display names for both views.
func PartitionNamed(ds *Dataset, indicator string, membership float64, memberName, nonMemberName string) (member, nonMember *View, err error) {
	if err := checkIndicator(ds, indicator); err != nil {
		return nil, nil, err
	}
	if IsMissing(membership) {
		return nil, nil, PartitionError(indicator, "membership value is missing")
	}
	member = &View{ds: ds, name: memberName, indicator: indicator, membership: membership, member: true}
	nonMember = &View{ds: ds, name: nonMemberName, indicator: indicator, membership: membership}
	return member, nonMember, nil
}

func checkIndicator(ds *Dataset, indicator string) error {
	kind, ok := ds.KindOf(indicator)
	if !ok {
		return PartitionError(indicator, "indicator column not found")
	}
	if kind != Numeric {
		return PartitionError(indicator, "indicator column is %s, want numeric", kind)
	}
	return nil
}

// Name returns the display name of the view.
func (v *View) Name() string { return v.name }

// Dataset returns the table the view filters.
func (v *View) Dataset() *Dataset { return v.ds }

// Rows returns the indices of the rows currently in the view, ascending.
func (v *View) Rows() ([]int, error) {
	if err := checkIndicator(v.ds, v.indicator); err != nil {
		return nil, err
	}
	flags := v.ds.cols[v.indicator].numbers
	rows := make([]int, 0, len(flags))
	for i, f := range flags {
		// NaN never equals membership, so missing indicators fall to the complement.
		if (f == v.membership) == v.member {
			rows = append(rows, i)
		}
	}
	return rows, nil
}

// Len returns the number of rows in the view, or 0 if the indicator is gone.
func (v *View) Len() int {
	rows, err := v.Rows()
	if err != nil {
		return 0
	}
	return len(rows)
}

// Column projects the current values of a numeric column onto the view's rows.
func (v *View) Column(name string) ([]float64, error) {
	rows, err := v.Rows()
	if err != nil {
		return nil, err
	}
	src, err := v.ds.Column(name)
	if err != nil {
		return nil, err
	}
	out := make([]float64, len(rows))
	for i, r := range rows {
		out[i] = src[r]
	}
	return out, nil
}

// Select copies the named columns restricted to the view's rows.
func (v *View) Select(names ...string) (*Dataset, error) {
	rows, err := v.Rows()
	if err != nil {
		return nil, err
	}
	return v.ds.selectRows(rows, names)
}
