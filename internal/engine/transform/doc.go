// Package transform records document edits as invertible steps.
//
// A Step is a single atomic change to a document. Applying a step yields a
// new document and a StepMap describing how positions moved. A Transform
// accumulates steps and keeps a Mapping of all their maps, so code that
// computed positions against the original document can translate them into
// the current one:
//
//	tr := transform.New(doc)
//	tr.Insert(tr.Mapping().Map(pos, 1), cell)
//
// Position mapping rules:
//   - Positions before a change are unchanged
//   - Positions after a change shift by the change's size delta
//   - Positions inside a deleted range collapse to one of its ends
//   - Positions exactly at an insertion point follow the association side:
//     assoc < 0 stays before the inserted content, assoc > 0 moves after it
package transform
