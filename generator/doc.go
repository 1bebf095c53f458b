// Package generator registers and dispatches plot data generators.
//
// A generator is a function producing JSON-serialisable plot data for a
// volcano and an optional date range. Each one is registered under one or
// more tags, a (category, label) pair written "category|label" on the wire.
//
// Generator modules get a Registrar from Registry.Module, which carries the
// module's default category and its documentation (used as the category
// description), and call Register once per generator:
//
//	m := reg.Module("Seismology", seismologyDoc)
//	m.MustRegister([]string{"Magnitude", "Depth"}, generator.Generator{
//		Name: "plot_magnitude",
//		Doc:  "DESCRIPTION: Earthquake magnitudes from the AQMS catalog.",
//		Func: plotMagnitude,
//	})
//
// Registration happens at startup only. Freeze closes the registry before
// the HTTP server starts; after that it is read without locks.
//
// Dispatch looks a tag up, stores it in the request context (see CurrentTag)
// and runs the generator, so a function shared by several labels can tell
// which one was requested.
package generator
