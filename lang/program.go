// Copyright 2026 the bcs authors.
//
// The bcs library is free software: you can redistribute it and/or modify it
// under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or (at your
// option) any later version.
//
// The bcs library is distributed in the hope that it will be useful, but
// WITHOUT ANY WARRANTY; without even the implied warranty of MERCHANTABILITY
// or FITNESS FOR A PARTICULAR PURPOSE. See the GNU Lesser General Public
// License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the bcs library. If not, see <http://www.gnu.org/licenses/>.

package lang

// A ProcessDefinition is one named process of the program: its formal
// parameter list and the root of its parse tree. Definitions are read-only
// for the lifetime of a run; instances reference their subtrees, never copy
// them.
type ProcessDefinition struct {
	Name       string
	Parameters []string
	Root       Block
}

// A Program is the full parse product handed to the engine: the definitions
// by name, the roots of the initially running system processes, and the
// global environment.
type Program struct {
	Definitions map[string]ProcessDefinition
	Initial     []Block
	Globals     GlobalVariables
}
