package gen

// client builds the data access interface of t.
func (g *Generator) client(run *Run, t *Table) (*Interface, error) {
	iface := &Interface{
		Name: t.MapperName,
		Doc:  []string{t.MapperName + " reads and writes " + t.RuntimeName + "."},
	}
	for _, op := range Methods() {
		if !t.Enabled(op) {
			continue
		}
		m := StandardMethod(t, op)
		ok, err := g.fire(run, t, &MethodGenerated{Op: op, Method: m, Interface: iface})
		if err != nil {
			return nil, err
		}
		if ok {
			iface.AddMethod(m)
		}
	}
	ok, err := g.fire(run, t, &InterfaceGenerated{Interface: iface})
	if err != nil || !ok {
		return nil, err
	}
	return iface, nil
}

// StandardMethod returns the method signature of a standard operation.
func StandardMethod(t *Table, op Op) *Method {
	var (
		record  = &Parameter{Name: "record", Type: PointerTo(t.RecordType())}
		example = &Parameter{Name: "example", Type: PointerTo(t.ExampleType())}
		affects = []*Type{Int64Type, ErrorType}
	)
	m := &Method{Name: op.String(), Context: true}
	switch op {
	case OpCountByExample:
		m.Doc = []string{"CountByExample counts the rows matching example."}
		m.Params = []*Parameter{example}
		m.Results = affects
	case OpDeleteByExample:
		m.Doc = []string{"DeleteByExample deletes the rows matching example."}
		m.Params = []*Parameter{example}
		m.Results = affects
	case OpDeleteByPrimaryKey:
		m.Doc = []string{"DeleteByPrimaryKey deletes one row by key."}
		m.Params = []*Parameter{keyParam(t)}
		m.Results = affects
	case OpInsert:
		m.Doc = []string{"Insert inserts every column of record."}
		m.Params = []*Parameter{record}
		m.Results = affects
	case OpInsertSelective:
		m.Doc = []string{"InsertSelective inserts the non-zero columns of record."}
		m.Params = []*Parameter{record}
		m.Results = affects
	case OpSelectByExample:
		m.Doc = []string{"SelectByExample returns the rows matching example."}
		m.Params = []*Parameter{example}
		m.Results = []*Type{SliceOf(PointerTo(t.RecordType())), ErrorType}
	case OpSelectByPrimaryKey:
		m.Doc = []string{"SelectByPrimaryKey returns one row by key."}
		m.Params = []*Parameter{keyParam(t)}
		m.Results = []*Type{PointerTo(t.RecordType()), ErrorType}
	case OpUpdateByExampleSelective:
		m.Doc = []string{"UpdateByExampleSelective updates the non-zero columns of record on the rows matching example."}
		m.Params = []*Parameter{bound(record), bound(example)}
		m.Results = affects
	case OpUpdateByExample:
		m.Doc = []string{"UpdateByExample updates every column of record on the rows matching example."}
		m.Params = []*Parameter{bound(record), bound(example)}
		m.Results = affects
	case OpUpdateByPrimaryKeySelective:
		m.Doc = []string{"UpdateByPrimaryKeySelective updates the non-zero columns of record by key."}
		m.Params = []*Parameter{record}
		m.Results = affects
	case OpUpdateByPrimaryKey:
		m.Doc = []string{"UpdateByPrimaryKey updates every column of record by key."}
		m.Params = []*Parameter{record}
		m.Results = affects
	}
	return m
}

func keyParam(t *Table) *Parameter {
	if t.HasCompositeKey() {
		return &Parameter{Name: "key", Type: t.KeyType()}
	}
	return &Parameter{Name: "id", Type: t.KeyType()}
}

// bound names the argument in statements, as needed when a statement
// takes more than one argument.
func bound(p *Parameter) *Parameter {
	return &Parameter{Name: p.Name, Type: p.Type, Bind: p.Name}
}
