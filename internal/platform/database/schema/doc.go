// Copyright (c) 2026 Folio. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package schema names the tables and columns of the Folio database.
//
// Stores build SQL from these definitions so a column rename touches one file.
// Sibling order lives in a column named sortorder because "order" is reserved.
package schema

// OrderConstraintSuffix ends the name of every unique (parent, sortorder) constraint.
const OrderConstraintSuffix = "_sortorder"
