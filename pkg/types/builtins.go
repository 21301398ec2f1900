package types

import (
	"github.com/matzehuels/navgen/pkg/feed"
)

// Qualified names of runtime types navgen reasons about.
const (
	DestinationStyle            = "com.ramcosta.composedestinations.spec.DestinationStyle"
	DestinationStyleDefault     = DestinationStyle + ".Default"
	DestinationStyleBottomSheet = DestinationStyle + ".BottomSheet"
	DestinationStyleDialog      = DestinationStyle + ".Dialog"
	DestinationStyleRuntime     = DestinationStyle + ".Runtime"
	DestinationStyleAnimated    = DestinationStyle + ".Animated"

	RootNavGraph = "com.ramcosta.composedestinations.annotation.RootNavGraph"

	AnimatedVisibilityScope  = "androidx.compose.animation.AnimatedVisibilityScope"
	ExperimentalAnimationAPI = "androidx.compose.animation.ExperimentalAnimationApi"

	Parcelable   = "android.os.Parcelable"
	Serializable = "java.io.Serializable"
)

// builtins are part of every universe. Feed declarations with the same
// qualified name replace them.
var builtins = []feed.TypeDecl{
	{QualifiedName: "kotlin.Any", Kind: feed.KindClass},
	{QualifiedName: "kotlin.Unit", Kind: feed.KindObject},
	{QualifiedName: "kotlin.String", Kind: feed.KindClass},
	{QualifiedName: "kotlin.Int", Kind: feed.KindClass},
	{QualifiedName: "kotlin.Long", Kind: feed.KindClass},
	{QualifiedName: "kotlin.Float", Kind: feed.KindClass},
	{QualifiedName: "kotlin.Double", Kind: feed.KindClass},
	{QualifiedName: "kotlin.Boolean", Kind: feed.KindClass},
	{QualifiedName: "kotlin.Char", Kind: feed.KindClass},
	{QualifiedName: "kotlin.Short", Kind: feed.KindClass},
	{QualifiedName: "kotlin.Byte", Kind: feed.KindClass},
	{QualifiedName: "kotlin.Array", Kind: feed.KindClass},
	{QualifiedName: "kotlin.collections.List", Kind: feed.KindInterface},
	{QualifiedName: "kotlin.collections.Set", Kind: feed.KindInterface},
	{QualifiedName: "kotlin.collections.Map", Kind: feed.KindInterface},
	{QualifiedName: "kotlin.collections.ArrayList", Kind: feed.KindClass, Supertypes: []string{"kotlin.collections.List"}},

	{QualifiedName: Parcelable, Kind: feed.KindInterface},
	{QualifiedName: Serializable, Kind: feed.KindInterface},

	{QualifiedName: DestinationStyle, Kind: feed.KindInterface},
	{QualifiedName: DestinationStyleDefault, Kind: feed.KindObject, Supertypes: []string{DestinationStyle}},
	{QualifiedName: DestinationStyleBottomSheet, Kind: feed.KindObject, Supertypes: []string{DestinationStyle}},
	{QualifiedName: DestinationStyleDialog, Kind: feed.KindInterface, Supertypes: []string{DestinationStyle}},
	{QualifiedName: DestinationStyleRuntime, Kind: feed.KindObject, Supertypes: []string{DestinationStyle}},
	{QualifiedName: DestinationStyleAnimated, Kind: feed.KindInterface, Supertypes: []string{DestinationStyle}},

	{QualifiedName: RootNavGraph, Kind: feed.KindAnnotation, NavGraph: &feed.NavGraphDecl{Route: "root"}},

	{QualifiedName: AnimatedVisibilityScope, Kind: feed.KindInterface},
	{QualifiedName: ExperimentalAnimationAPI, Kind: feed.KindAnnotation},
}
