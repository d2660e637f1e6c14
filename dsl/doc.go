// Package dsl provides the concrete schemas of streamskema.
//
// Overview
//   - Leaves: String/StringOf, Bool, Int, Float, Decimal, Number, Any, Const.
//   - Collections: Array (Min/Max), Map, Tuple with Element (Tuple2/Tuple3 for
//     the common cases).
//   - Records: Object over Field bindings. Unknown and duplicate properties are
//     errors; Optional fields may be absent; Default fills absent fields.
//   - Optional: *W, encoded as an omitted property inside records and as null
//     (or a {"value": ...} box when W itself can be null) elsewhere.
//   - Enums: StringEnum/IntEnum over primitive cases, Tagged with
//     Variant/Unit cases, Internal with InternalVariant cases selected by a
//     discriminator property read ahead of the rest of the object.
//
// Every schema implements streamskema.Schema[T]: Definition for the JSON
// Schema projection, Encode, and NewDecoder for resumable decoding state.
// Names (fields, cases) are checked when the schema is built; a duplicate is a
// programming error and panics.
//
// File layout (roles)
//   - primitives.go: leaf schemas.
//   - array.go: ArraySchema and MapSchema.
//   - tuple.go: TupleSchema, Element, T2/T3.
//   - object.go: ObjectSchema, FieldDef, Default; discriminator injection.
//   - optional.go: OptionalSchema and the boxed nested form.
//   - enum.go: case-enumerated enums.
//   - tagged.go: standard tagged enums (single, names, keyed styles).
//   - internal.go: internally tagged enums.
//
// Example
//
//	type Args struct {
//	    City  string
//	    Days  int
//	    Units *string
//	}
//
//	args := dsl.Object(
//	    dsl.Field("city", dsl.String(), func(a *Args) *string { return &a.City }).
//	        Describe("city name"),
//	    dsl.Field("days", dsl.Int[int](), func(a *Args) *int { return &a.Days },
//	        dsl.Default(1)),
//	    dsl.Field("units", dsl.Optional(dsl.String()), func(a *Args) **string { return &a.Units }),
//	)
//
//	d := streamskema.NewDecoder[Args](args)
//	_ = d.Push(`{"city":"Ky`)
//	_, err := d.Decode() // ErrNeedMoreData
//	_ = d.Push(`oto"}`)
//	d.Finish()
//	v, err := d.Decode() // Args{City: "Kyoto", Days: 1}
package dsl
