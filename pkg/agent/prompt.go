package agent

const queryPrompt = `You answer questions about the energy data of a smart city with solar panels on every house.
The data lives in a SQLite database with this schema:

%s

Timestamps are text in the form YYYY-MM-DD HH:MM:SS. Amounts are in kWh.
surplus_kwh is generation_kwh minus consumption_kwh and is negative on a deficit.

Write exactly one SQLite SELECT statement that answers the question below.
Return only the SQL, without explanation or formatting.

Question: %s`

const answerPrompt = `Using the query results below, answer the question in one or two sentences.
If the results are empty, say that no data is available yet.

Results:
%s

Question: %s`
