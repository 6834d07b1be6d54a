// Package source defines the contract build statistics providers implement
// and the import/delete flow that turns their data into item sets.
//
// A provider implements four primitives (Champions, Items, SkillOrder and
// Version). Provider composes them into one ItemSet per champion role and
// writes the result through a FileWriter, recording the imported version in
// a ConfigStore.
//
// # Usage
//
//	p := source.NewProvider("ugg", ugg.NewFetcher(dd), store, writer, log)
//	if err := p.Import(); err != nil {
//	    log.Fatal("import failed", zap.Error(err))
//	}
package source
