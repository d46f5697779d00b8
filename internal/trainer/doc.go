// Mealrec - Restaurant Menu Meal-Completion Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mealrec

/*
Package trainer produces the item embedding matrix served by the
recommendation API.

It fits a two-tower model on a user/item interaction log with Bayesian
Personalized Ranking. The user tower is a plain embedding table. The item
tower maps a frozen per-item text embedding through a small ReLU network
and adds a learned id embedding. After training, the item tower is run
over every catalog row and the result is written as a float32 .npy file
whose row i belongs to catalog row i.

Pipeline:

	catalog CSV ─┐
	interactions ├─ LoadInputs ─ BuildDataset ─ Trainer ─ ItemVectors ─ .npy
	text .npy ───┘                                │
	                                              └─ CheckpointStore (BadgerDB)

Interaction weights come from TrainerConfig.EventWeights keyed by
interaction_type (by default view=1, add_to_cart=3, order=5).
Interactions on items absent from the catalog are skipped and counted.

Checkpoints hold every parameter and both Adam moment tensors. Each epoch
draws its shuffle and negatives from seed+epoch+1, so a run resumed from a
checkpoint continues exactly as an uninterrupted one would.
*/
package trainer
