// Copyright 2025 KrakLabs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0

// Package model defines the relational entities shared by every layer of
// roam: the extractor contract (Symbol/Reference), the persisted schema
// (File, Edge, FileEdge, GraphMetrics, SymbolMetrics, Cluster, FileStats,
// git history, Snapshot), and the small set of enums those entities use.
package model

// FileRole is the classifier's verdict for a file's purpose in the repo.
type FileRole string

const (
	RoleSource    FileRole = "source"
	RoleTest      FileRole = "test"
	RoleConfig    FileRole = "config"
	RoleBuild     FileRole = "build"
	RoleDocs      FileRole = "docs"
	RoleGenerated FileRole = "generated"
	RoleVendored  FileRole = "vendored"
	RoleData      FileRole = "data"
	RoleExamples  FileRole = "examples"
	RoleScripts   FileRole = "scripts"
	RoleCI        FileRole = "ci"
)

// SymbolKind enumerates the kinds of declarations an extractor may report.
type SymbolKind string

const (
	KindFunction    SymbolKind = "function"
	KindMethod      SymbolKind = "method"
	KindClass       SymbolKind = "class"
	KindInterface   SymbolKind = "interface"
	KindStruct      SymbolKind = "struct"
	KindEnum        SymbolKind = "enum"
	KindTrait       SymbolKind = "trait"
	KindModule      SymbolKind = "module"
	KindConstant    SymbolKind = "constant"
	KindVariable    SymbolKind = "variable"
	KindField       SymbolKind = "field"
	KindProperty    SymbolKind = "property"
	KindConstructor SymbolKind = "constructor"
	KindTypeAlias   SymbolKind = "type_alias"
	KindTrigger     SymbolKind = "trigger"
)

// Visibility mirrors the access modifiers a source language may express.
type Visibility string

const (
	VisPublic    Visibility = "public"
	VisPrivate   Visibility = "private"
	VisProtected Visibility = "protected"
	VisPackage   Visibility = "package"
)

// EdgeKind enumerates the relationships the Resolver may emit between symbols.
type EdgeKind string

const (
	EdgeCall         EdgeKind = "call"
	EdgeImport       EdgeKind = "import"
	EdgeInherits     EdgeKind = "inherits"
	EdgeImplements   EdgeKind = "implements"
	EdgeUses         EdgeKind = "uses"
	EdgeUsesTrait    EdgeKind = "uses_trait"
	EdgeTemplate     EdgeKind = "template"
	EdgeReference    EdgeKind = "reference"
	EdgeTypeRef      EdgeKind = "type_ref"
	EdgeSOQLQuery    EdgeKind = "soql_query"
	EdgeDMLInsert    EdgeKind = "dml_insert"
	EdgeDMLUpdate    EdgeKind = "dml_update"
	EdgeDMLDelete    EdgeKind = "dml_delete"
	EdgeDMLUpsert    EdgeKind = "dml_upsert"
	EdgeDMLMerge     EdgeKind = "dml_merge"
	EdgeDMLUndelete  EdgeKind = "dml_undelete"
	EdgeLabel        EdgeKind = "label"
	EdgeSchemaRef    EdgeKind = "schema_ref"
)

// edgeKindPriority orders edge kinds for semantic-context de-duplication,
// lowest value wins (§4.6.10): call < uses < inherits < implements <
// template < import < reference.
var edgeKindPriority = map[EdgeKind]int{
	EdgeCall:       0,
	EdgeUses:       1,
	EdgeInherits:   2,
	EdgeImplements: 3,
	EdgeTemplate:   4,
	EdgeImport:     5,
	EdgeReference:  6,
}

// EdgeKindPriority returns the semantic-context ranking for kind; unranked
// kinds sort after every ranked kind, ties broken elsewhere by kind name.
func EdgeKindPriority(kind EdgeKind) int {
	if p, ok := edgeKindPriority[kind]; ok {
		return p
	}
	return len(edgeKindPriority)
}

// File is a row in the files table, unique by forward-slash normalized path.
type File struct {
	ID        int64
	Path      string
	Language  string
	LineCount int
	FileRole  FileRole
	Hash      string
}

// Symbol is a declaration owned by exactly one File.
type Symbol struct {
	ID            int64
	FileID        int64
	Name          string
	QualifiedName string
	Kind          SymbolKind
	Signature     string
	LineStart     int
	LineEnd       int
	Docstring     string
	Visibility    Visibility
	IsExported    bool
	ParentName    string
	DefaultValue  string
}

// Edge is a directed reference between two Symbols.
type Edge struct {
	ID       int64
	SourceID int64
	TargetID int64
	Kind     EdgeKind
	Line     int
}

// FileEdge is a cross-file aggregation of Edges.
type FileEdge struct {
	SourceFileID int64
	TargetFileID int64
	Kind         string
	SymbolCount  int
}

// GraphMetrics is one row per Symbol with graph-derived scores.
type GraphMetrics struct {
	SymbolID    int64
	PageRank    float64
	InDegree    int
	OutDegree   int
	Betweenness float64
}

// SymbolMetrics is one row per function-like Symbol with complexity scores.
type SymbolMetrics struct {
	SymbolID           int64
	CognitiveComplexity int
	NestingDepth        int
	ParamCount          int
	LineCount           int
	ReturnCount         int
	BoolOpCount         int
	CallbackDepth       int
	CyclomaticDensity   float64
	HalsteadVolume      float64
	HalsteadDifficulty  float64
	HalsteadEffort      float64
	HalsteadBugs        float64
}

// Cluster assigns a Symbol to a community.
type Cluster struct {
	SymbolID     int64
	ClusterID    int
	ClusterLabel string
}

// FileStats aggregates history/complexity signals per File.
type FileStats struct {
	FileID          int64
	CommitCount     int
	TotalChurn      int
	DistinctAuthors int
	Complexity      float64
	HealthScore     float64
	CochangeEntropy float64
	CognitiveLoad   float64
}

// GitCochange is an unordered file pair that changed together, a < b.
type GitCochange struct {
	FileIDA       int64
	FileIDB       int64
	CochangeCount int
}

// GitCommit is one commit's metadata.
type GitCommit struct {
	SHA       string
	Author    string
	Timestamp int64
	Message   string
}

// GitFileChange is one file's churn within one commit.
type GitFileChange struct {
	SHA       string
	FileID    int64
	Additions int
	Deletions int
}

// Snapshot captures the aggregate metrics of one indexing run.
type Snapshot struct {
	ID        int64
	Timestamp int64
	Metrics   map[string]float64
	Extra     map[string]any
}

// Reference is the extractor's name-based cross-reference record, consumed
// by the Resolver (§6 External Interfaces, Extractor contract).
type Reference struct {
	SourceName string
	TargetName string
	Kind       EdgeKind
	Line       int
	ImportPath string
	SourceFile string
}
